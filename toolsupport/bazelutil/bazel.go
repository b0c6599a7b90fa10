// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package bazelutil provides utilities to invoke bazel.
package bazelutil

const (
	// OutputRoot is the name of the convenience symlink bazel creates
	// in the workspace for its output tree.
	OutputRoot = "bazel-out"

	// QuietFlag suppresses bazel's informational UI events and
	// the stdout/stderr of actions.
	QuietFlag = "--ui_event_filters=-info,-debug,-warning,-stderr,-stdout"
)

// BuildArgs returns the command line to build targets with bazelCmd.
// Unless verbose, QuietFlag is inserted before targets.
func BuildArgs(bazelCmd []string, verbose bool, targets []string) []string {
	args := make([]string, 0, len(bazelCmd)+1+len(targets))
	args = append(args, bazelCmd...)
	if !verbose {
		args = append(args, QuietFlag)
	}
	return append(args, targets...)
}
