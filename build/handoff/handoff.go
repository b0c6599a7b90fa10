// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package handoff loads the files handed off from ninja and its generator
// to the ninja-bazel integration.
//
// Two files are read from the ninja running directory:
//
//   - RequestFile lists the targets given on ninja's command line.
//     It is written by the ninja wrapper on every ninja invocation and
//     is consumed (removed) once read.
//   - BuildInfoFile maps bazel outputs to bazel targets, and holds the
//     bazel command line. It is written when build.ninja is generated.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// RequestFile is the filename of the targets requested on the last
	// ninja command line.
	RequestFile = ".ninja_last_command_line_targets.txt"

	// BuildInfoFile is the filename of the bazel build info for ninja.
	BuildInfoFile = ".bazel_info_for_ninja.txt"
)

// FS is the filesystem access needed to load the handoff files.
type FS interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, name string) error
}

// Request is the handoff for one invocation.
type Request struct {
	// Targets are the targets requested on ninja's command line,
	// in the order given.
	Targets []string

	BuildInfo *BuildInfo
}

// Loader loads handoff files in Dir.
type Loader struct {
	FS FS

	// Dir is the ninja running directory.
	Dir string
}

func (l *Loader) path(name string) string {
	return filepath.Join(l.Dir, name)
}

// Load reads and consumes the request file, and reads the build info file.
func (l *Loader) Load(ctx context.Context) (*Request, error) {
	targets, err := l.loadTargets(ctx)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).Debugf("NINJA COMMAND LINE TARGETS:\n%s", strings.Join(targets, "\n"))

	info, err := l.loadBuildInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &Request{
		Targets:   targets,
		BuildInfo: info,
	}, nil
}

func (l *Loader) loadTargets(ctx context.Context) ([]string, error) {
	fname := l.path(RequestFile)
	buf, err := l.FS.ReadFile(ctx, fname)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, MissingRequestFileError{Name: fname, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fname, err)
	}
	err = l.FS.Remove(ctx, fname)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", fname, err)
	}
	return ParseTargets(buf), nil
}

func (l *Loader) loadBuildInfo(ctx context.Context) (*BuildInfo, error) {
	fname := l.path(BuildInfoFile)
	buf, err := l.FS.ReadFile(ctx, fname)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, MissingBuildInfoFileError{Name: fname, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fname, err)
	}
	info, err := ParseBuildInfo(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fname, err)
	}
	return info, nil
}

// ClearRequest removes the request file if it still exists.
func (l *Loader) ClearRequest(ctx context.Context) error {
	fname := l.path(RequestFile)
	err := l.FS.Remove(ctx, fname)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", fname, err)
	}
	return nil
}

// ParseTargets parses the content of the request file.
// Each non-blank line is a target, with surrounding spaces stripped.
func ParseTargets(buf []byte) []string {
	var targets []string
	for _, line := range strings.Split(string(buf), "\n") {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// ParseBuildInfo parses the content of the build info file.
func ParseBuildInfo(buf []byte) (*BuildInfo, error) {
	info := &BuildInfo{}
	err := json.Unmarshal(buf, info)
	if err != nil {
		return nil, err
	}
	if len(info.BazelCmd) == 0 {
		return nil, errors.New("no bazel_cmd")
	}
	return info, nil
}
