// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package localexec_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"go.chromium.org/infra/build/ninjabazel/execute"
	"go.chromium.org/infra/build/ninjabazel/execute/localexec"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses /bin/sh")
		return
	}
	ctx := context.Background()
	dir := t.TempDir()

	for _, tc := range []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
		wantExit   int
	}{
		{
			name:       "success",
			args:       []string{"/bin/sh", "-c", "pwd; echo err >&2"},
			wantStdout: dir + "\n",
			wantStderr: "err\n",
		},
		{
			name:     "failure",
			args:     []string{"/bin/sh", "-c", "exit 3"},
			wantExit: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := &execute.Cmd{
				ID:     tc.name,
				Args:   tc.args,
				Dir:    dir,
				Stdout: &stdout,
				Stderr: &stderr,
			}
			err := localexec.LocalExec{}.Run(ctx, cmd)
			if tc.wantExit == 0 {
				if err != nil {
					t.Fatalf("Run=%v; want nil", err)
				}
			} else {
				var eerr execute.ExitError
				if !errors.As(err, &eerr) || eerr.ExitCode != tc.wantExit {
					t.Fatalf("Run=%v; want exit=%d", err, tc.wantExit)
				}
			}
			if got := stdout.String(); got != tc.wantStdout {
				t.Errorf("stdout=%q; want %q", got, tc.wantStdout)
			}
			if got := stderr.String(); got != tc.wantStderr {
				t.Errorf("stderr=%q; want %q", got, tc.wantStderr)
			}
		})
	}
}

func TestRun_NotFound(t *testing.T) {
	ctx := context.Background()
	err := localexec.LocalExec{}.Run(ctx, &execute.Cmd{
		ID:   "missing",
		Args: []string{"ninjabazel-no-such-command"},
	})
	if err == nil {
		t.Fatal("Run=nil; want error")
	}
	var eerr execute.ExitError
	if errors.As(err, &eerr) {
		t.Errorf("Run=%v; want non ExitError", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	err := localexec.LocalExec{}.Run(context.Background(), &execute.Cmd{ID: "empty"})
	if err == nil {
		t.Fatal("Run=nil; want error")
	}
}
