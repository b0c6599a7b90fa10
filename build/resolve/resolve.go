// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package resolve resolves bazel targets that ninja targets depend on.
package resolve

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/ninjabazel/build/handoff"
)

// InputsQuerier lists all inputs required to rebuild ninja targets.
type InputsQuerier interface {
	Inputs(ctx context.Context, fname string, targets []string) ([]string, error)
}

// RequestCleaner removes the handoff request file, if any.
type RequestCleaner interface {
	ClearRequest(ctx context.Context) error
}

// Resolver resolves bazel targets from the requested ninja targets.
type Resolver struct {
	Querier InputsQuerier
	Cleaner RequestCleaner

	// NinjaFile is the ninja build manifest to query.
	NinjaFile string

	// WorkDir is the absolute path of the ninja running directory.
	// Relative inputs are resolved against it.
	WorkDir string
}

// Result is a result of Resolve.
type Result struct {
	// Requested are the requested ninja targets.
	Requested []string

	// Deps are all inputs of Requested, absolute and slash separated.
	Deps []string

	// Outputs are the bazel outputs found in Deps.
	Outputs []string

	// Targets are the bazel targets to build Outputs.
	Targets []string
}

// Resolve queries inputs of req.Targets and returns bazel targets that
// produce any of them.
func (r *Resolver) Resolve(ctx context.Context, req *handoff.Request) (*Result, error) {
	logger := log.FromContext(ctx)
	idx := req.BuildInfo.OutputIndex()

	inputs, err := r.Querier.Inputs(ctx, r.NinjaFile, req.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to get inputs of %q: %w", req.Targets, err)
	}
	deps := make([]string, 0, len(inputs))
	for _, in := range inputs {
		deps = append(deps, NormalizePath(r.WorkDir, in))
	}
	logger.Debugf("COMMAND LINE DEPS:\n%s", strings.Join(deps, "\n"))

	err = r.Cleaner.ClearRequest(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debugf("BAZEL OUTPUTS:\n%s", strings.Join(req.BuildInfo.Outputs(), "\n"))

	outputs, targets := Intersect(deps, idx)
	logger.Debugf("BAZEL OUTPUTS TO BUILD: %q", outputs)
	return &Result{
		Requested: req.Targets,
		Deps:      deps,
		Outputs:   outputs,
		Targets:   targets,
	}, nil
}

// NormalizePath returns the absolute path of p, relative to wd if p is
// relative, with all backslashes converted to slashes.
// Backslashes are converted on every platform, since ninja on windows
// may report either separator.
func NormalizePath(wd, p string) string {
	if filepath.IsAbs(p) {
		p = filepath.Clean(p)
	} else {
		p = filepath.Join(wd, p)
	}
	return strings.ReplaceAll(p, `\`, "/")
}

// Intersect returns deps that are bazel outputs in idx, and bazel targets
// producing them.
// Both are in the order of first appearance in deps, without duplicates.
func Intersect(deps []string, idx handoff.OutputIndex) (outputs, targets []string) {
	seenOutput := make(map[string]bool)
	seenTarget := make(map[string]bool)
	for _, dep := range deps {
		target, ok := idx[dep]
		if !ok || seenOutput[dep] {
			continue
		}
		seenOutput[dep] = true
		outputs = append(outputs, dep)
		if seenTarget[target] {
			continue
		}
		seenTarget[target] = true
		targets = append(targets, target)
	}
	return outputs, targets
}
