// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bazelutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildArgs(t *testing.T) {
	bazelCmd := []string{"bazel", "build", "--config=dbg"}
	targets := []string{"//src/mongo/db:mongod", "//src/mongo/s:mongos"}

	for _, tc := range []struct {
		name    string
		verbose bool
		want    []string
	}{
		{
			name: "quiet",
			want: []string{"bazel", "build", "--config=dbg", QuietFlag, "//src/mongo/db:mongod", "//src/mongo/s:mongos"},
		},
		{
			name:    "verbose",
			verbose: true,
			want:    []string{"bazel", "build", "--config=dbg", "//src/mongo/db:mongod", "//src/mongo/s:mongos"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildArgs(bazelCmd, tc.verbose, targets)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BuildArgs diff -want +got:\n%s", diff)
			}
		})
	}
}

func TestBuildArgs_NoAlias(t *testing.T) {
	bazelCmd := make([]string, 2, 8)
	copy(bazelCmd, []string{"bazel", "build"})
	_ = BuildArgs(bazelCmd, false, []string{"//a:a"})
	got := BuildArgs(bazelCmd, true, []string{"//b:b"})
	want := []string{"bazel", "build", "//b:b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildArgs diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bazel", "build"}, bazelCmd); diff != "" {
		t.Errorf("bazelCmd modified: diff -want +got:\n%s", diff)
	}
}
