// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execute runs commands.
package execute

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.chromium.org/infra/build/ninjabazel/toolsupport/shutil"
)

// Executor is an interface to run the cmd.
type Executor interface {
	Run(ctx context.Context, cmd *Cmd) error
}

// Cmd includes all the information required to run an external tool.
type Cmd struct {
	// ID is used as an identifier for this command in logs.
	// Example: "ninja-inputs" or "bazel-build"
	ID string

	// Args holds command line arguments.
	// Args[0] is the executable, looked up in PATH if it has no path separator.
	Args []string

	// Dir specifies the working directory of the process.
	// If empty, the process runs in the current directory.
	Dir string

	// Stdout and Stderr receive the process outputs.
	// If nil, the process writes to the current process' stdout/stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line of the cmd.
func (c *Cmd) String() string {
	return shutil.Join(c.Args)
}

// StdoutWriter returns a writer for stdout of the cmd.
func (c *Cmd) StdoutWriter() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// StderrWriter returns a writer for stderr of the cmd.
func (c *Cmd) StderrWriter() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

// ExitError is an error of cmd exit.
type ExitError struct {
	ExitCode int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit=%d", e.ExitCode)
}
