// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package dispatch runs bazel to build the resolved bazel targets.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/ninjabazel/build/handoff"
	"go.chromium.org/infra/build/ninjabazel/build/resolve"
	"go.chromium.org/infra/build/ninjabazel/execute"
	"go.chromium.org/infra/build/ninjabazel/toolsupport/bazelutil"
)

// FS is the filesystem access needed to prepare the bazel output root.
type FS interface {
	IsSymlink(ctx context.Context, name string) (bool, error)
	RemoveAll(ctx context.Context, name string) error
}

// Dispatcher runs bazel.
type Dispatcher struct {
	FS       FS
	Executor execute.Executor

	// Dir is the ninja running directory, where bazel runs.
	Dir string

	// Verbose echoes the bazel command line, and shows bazel's UI events.
	Verbose bool

	// DryRun echoes the bazel command line without running it.
	DryRun bool

	// Stdout receives diagnostics and echoed command lines.
	// os.Stdout if nil.
	Stdout io.Writer
}

// NoTargetsError is an error when no bazel target is found in
// the inputs of the requested targets.
// It means bazel should not have been invoked for the build.
type NoTargetsError struct {
	Result *resolve.Result
}

func (e NoTargetsError) Error() string {
	return fmt.Sprintf("no bazel targets found in inputs of %q", e.Result.Requested)
}

// Diagnostic returns a detailed message for debugging.
func (e NoTargetsError) Diagnostic() string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "Did not find any bazel targets to build, bazel should not have been invoked.")
	fmt.Fprintf(&sb, "corresponding raw output files to build: %q\n", e.Result.Outputs)
	fmt.Fprintf(&sb, "command line targets: %q\n", e.Result.Requested)
	fmt.Fprintf(&sb, "input target deps: %q\n", e.Result.Deps)
	return sb.String()
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

// Dispatch builds res.Targets with the bazel command in info.
// It returns NoTargetsError without running bazel if res has no targets,
// and execute.ExitError if bazel fails.
func (d *Dispatcher) Dispatch(ctx context.Context, res *resolve.Result, info *handoff.BuildInfo) error {
	if len(res.Targets) == 0 {
		err := NoTargetsError{Result: res}
		fmt.Fprint(d.stdout(), err.Diagnostic())
		return err
	}
	cmd := &execute.Cmd{
		ID:   "bazel-build",
		Args: bazelutil.BuildArgs(info.BazelCmd, d.Verbose, res.Targets),
		Dir:  d.Dir,
	}
	if d.DryRun {
		fmt.Fprintln(d.stdout(), cmd)
		return nil
	}
	err := d.PrepareOutputRoot(ctx)
	if err != nil {
		return err
	}
	log.FromContext(ctx).Debugf("BAZEL TARGETS TO BUILD:\n%s", strings.Join(res.Targets, "\n"))
	if d.Verbose {
		fmt.Fprintln(d.stdout(), cmd)
	}
	err = d.Executor.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("bazel build: %w", err)
	}
	return nil
}

// PrepareOutputRoot removes the bazel output root in Dir
// unless it is a symlink.
// Ninja creates the parent directories of outputs, which may create
// the output root as a plain directory before bazel runs.
// Bazel manages the output root as a symlink to its output base, so
// the plain directory needs to be removed for bazel to create the symlink.
func (d *Dispatcher) PrepareOutputRoot(ctx context.Context) error {
	outputRoot := filepath.Join(d.Dir, bazelutil.OutputRoot)
	isSymlink, err := d.FS.IsSymlink(ctx, outputRoot)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check %s: %w", outputRoot, err)
	case isSymlink:
		log.FromContext(ctx).Debugf("keep %s symlink", outputRoot)
		return nil
	}
	log.FromContext(ctx).Debugf("remove %s created by ninja", outputRoot)
	err = d.FS.RemoveAll(ctx, outputRoot)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", outputRoot, err)
	}
	return nil
}
