// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build windows

package osfs

import (
	"context"
	"io/fs"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/windows"
)

// On windows, bazel may create a junction rather than a symlink,
// which is not reported as fs.ModeSymlink.
// Treat any reparse point that can be read as a link.
func (osfs *OSFS) isSymlink(ctx context.Context, name string, fi fs.FileInfo) bool {
	if fi.Mode()&fs.ModeSymlink != 0 {
		return true
	}
	if d, ok := fi.Sys().(*syscall.Win32FileAttributeData); ok && d.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT == 0 {
		return false
	}
	_, err := osfs.Readlink(ctx, name)
	if err != nil {
		log.FromContext(ctx).Debugf("readlink %s: %v", name, err)
		return false
	}
	return true
}
