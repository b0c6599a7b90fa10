// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package handoff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TargetInfo describes a bazel target that produces an output used by ninja.
type TargetInfo struct {
	// BazelOutput is the absolute, slash separated path of the output.
	BazelOutput string `json:"bazel_output"`

	// BazelTarget is the bazel label that produces BazelOutput.
	// e.g. "//src/mongo/db:mongod"
	BazelTarget string `json:"bazel_target"`
}

// BuildInfo is the content of BuildInfoFile.
type BuildInfo struct {
	// Targets maps ninja target names to bazel targets.
	Targets map[string]TargetInfo `json:"targets"`

	// BazelCmd is the bazel command line to build, without targets.
	// e.g. ["bazel", "build", "--config=local"]
	BazelCmd []string `json:"bazel_cmd"`

	// names of Targets in the order of BuildInfoFile.
	names []string
}

// targetsInOrder is the "targets" object of BuildInfoFile,
// decoded with the order of its keys.
type targetsInOrder struct {
	names   []string
	targets map[string]TargetInfo
}

func (t *targetsInOrder) UnmarshalJSON(buf []byte) error {
	dec := json.NewDecoder(bytes.NewReader(buf))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		// null
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("targets: want object, got %v", tok)
	}
	t.targets = make(map[string]TargetInfo)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("targets: unexpected token %v", tok)
		}
		var ti TargetInfo
		err = dec.Decode(&ti)
		if err != nil {
			return fmt.Errorf("targets[%q]: %w", name, err)
		}
		// a duplicated name keeps its first position, with the last value.
		if _, dup := t.targets[name]; !dup {
			t.names = append(t.names, name)
		}
		t.targets[name] = ti
	}
	_, err = dec.Token()
	return err
}

// UnmarshalJSON decodes BuildInfoFile, keeping the order of targets.
func (b *BuildInfo) UnmarshalJSON(buf []byte) error {
	var v struct {
		Targets  targetsInOrder `json:"targets"`
		BazelCmd []string       `json:"bazel_cmd"`
	}
	err := json.Unmarshal(buf, &v)
	if err != nil {
		return err
	}
	b.Targets = v.Targets.targets
	b.names = v.Targets.names
	b.BazelCmd = v.BazelCmd
	return nil
}

// TargetInfos returns the target infos in the order of BuildInfoFile.
// If b is not decoded from BuildInfoFile, they are in sorted order of
// their names.
func (b *BuildInfo) TargetInfos() []TargetInfo {
	names := b.names
	if len(names) != len(b.Targets) {
		names = make([]string, 0, len(b.Targets))
		for name := range b.Targets {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	infos := make([]TargetInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, b.Targets[name])
	}
	return infos
}

// Outputs returns the bazel outputs in the order of TargetInfos.
func (b *BuildInfo) Outputs() []string {
	infos := b.TargetInfos()
	outputs := make([]string, 0, len(infos))
	for _, ti := range infos {
		outputs = append(outputs, ti.BazelOutput)
	}
	return outputs
}

// OutputIndex maps bazel outputs to bazel targets.
type OutputIndex map[string]string

// NewOutputIndex builds an OutputIndex from infos.
// If more than one info has the same output, the last one wins.
func NewOutputIndex(infos []TargetInfo) OutputIndex {
	idx := make(OutputIndex, len(infos))
	for _, ti := range infos {
		idx[ti.BazelOutput] = ti.BazelTarget
	}
	return idx
}

// OutputIndex returns the OutputIndex of the build info.
func (b *BuildInfo) OutputIndex() OutputIndex {
	return NewOutputIndex(b.TargetInfos())
}
