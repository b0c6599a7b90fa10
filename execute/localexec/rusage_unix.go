// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package localexec

import (
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

func rusage(cmd *exec.Cmd) string {
	u, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage)
	if !ok {
		return ""
	}
	// 32bit arch may use int32 for Maxrss etc.
	return fmt.Sprintf("maxrss=%d majflt=%d inblock=%d oublock=%d utime=%s stime=%s",
		int64(u.Maxrss),
		int64(u.Majflt),
		int64(u.Inblock),
		int64(u.Oublock),
		time.Duration(u.Utime.Nano()),
		time.Duration(u.Stime.Nano()))
}
