// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ninjautil provides utilities to access ninja.
package ninjautil

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/ninjabazel/execute"
)

// DefaultNinja is the default ninja executable.
const DefaultNinja = "ninja"

// Runner runs ninja tools against a build manifest.
type Runner struct {
	// Ninja is the ninja executable. DefaultNinja if empty.
	Ninja string

	// Dir is the ninja running directory.
	Dir string

	// Executor runs ninja.
	Executor execute.Executor
}

func (r *Runner) ninja() string {
	if r.Ninja == "" {
		return DefaultNinja
	}
	return r.Ninja
}

// InputsArgs returns the command line to list inputs of targets in fname.
func (r *Runner) InputsArgs(fname string, targets []string) []string {
	args := []string{r.ninja(), "-f", fname, "-t", "inputs"}
	return append(args, targets...)
}

// Inputs returns all inputs required to rebuild targets in fname,
// as reported by `ninja -f <fname> -t inputs <targets>...`.
// Paths are as ninja prints them, i.e. relative to Dir unless absolute.
func (r *Runner) Inputs(ctx context.Context, fname string, targets []string) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := &execute.Cmd{
		ID:     "ninja-inputs",
		Args:   r.InputsArgs(fname, targets),
		Dir:    r.Dir,
		Stdout: &stdout,
		Stderr: &stderr,
	}
	log.FromContext(ctx).Debugf("NINJA GET INPUTS CMD: %s", cmd)
	err := r.Executor.Run(ctx, cmd)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", cmd, err)
		}
		return nil, fmt.Errorf("%s: %w\n%s", cmd, err, msg)
	}
	return ParseInputs(&stdout)
}

// ParseInputs parses output of `ninja -t inputs`.
// It returns each non-empty line.
func ParseInputs(r io.Reader) ([]string, error) {
	var inputs []string
	s := bufio.NewScanner(r)
	// A single line is a path, but don't fail on an unusually long one.
	const capacity = 1024 * 1024
	s.Buffer(make([]byte, 0, 64*1024), capacity)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			continue
		}
		inputs = append(inputs, line)
	}
	err := s.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ninja inputs: %w", err)
	}
	return inputs, nil
}
