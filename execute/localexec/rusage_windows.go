// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build windows

package localexec

import (
	"fmt"
	"os/exec"
)

func rusage(cmd *exec.Cmd) string {
	return fmt.Sprintf("utime=%s stime=%s", cmd.ProcessState.UserTime(), cmd.ProcessState.SystemTime())
}
