// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package localexec implements local command execution.
package localexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/ninjabazel/execute"
)

// LocalExec implements execute.Executor interface that runs commands locally.
type LocalExec struct{}

var _ execute.Executor = LocalExec{}

// Run runs a cmd in the foreground and waits for it to finish.
// It returns execute.ExitError if the cmd exits with non-zero exit code.
func (LocalExec) Run(ctx context.Context, cmd *execute.Cmd) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("no arguments in the command. ID: %s", cmd.ID)
	}
	logger := log.FromContext(ctx)
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stdout = cmd.StdoutWriter()
	c.Stderr = cmd.StderrWriter()

	logger.Debugf("%s run %s", cmd.ID, cmd)
	started := time.Now()
	err := c.Run()
	dur := time.Since(started)
	if c.ProcessState == nil {
		// failed to start. e.g. executable not found.
		return fmt.Errorf("failed to run %s: %w", cmd.ID, err)
	}
	code := exitCode(err)
	logger.Debugf("%s exit=%d %s %s", cmd.ID, code, dur, rusage(c))
	if ctxErr := context.Cause(ctx); ctxErr != nil && err != nil {
		return fmt.Errorf("%s: %w", cmd.ID, ctxErr)
	}
	if code != 0 {
		return execute.ExitError{ExitCode: code}
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 1
	}
	if w, ok := eerr.ProcessState.Sys().(syscall.WaitStatus); ok && w.ExitStatus() > 0 {
		return w.ExitStatus()
	}
	if code := eerr.ExitCode(); code > 0 {
		return code
	}
	// killed by signal.
	return 1
}
