// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS Filesystem access.
package osfs

import (
	"context"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/ninjabazel/o11y/iometrics"
)

// OSFS provides OS Filesystem access.
// It counts metrics by iometrics.
type OSFS struct {
	*iometrics.IOMetrics
}

// New creates new OSFS.
func New(name string) *OSFS {
	return &OSFS{IOMetrics: iometrics.New(name)}
}

// slowThreshold is the duration after which an operation is logged as slow.
var slowThreshold = 1 * time.Minute

func logSlow(ctx context.Context, name string, dur time.Duration, err error) {
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	log.FromContext(ctx).Warnf("slow op %s: %s %v\n%s", name, dur, err, buf[:n])
}

// ReadFile reads the named file and returns the contents.
func (fs *OSFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	started := time.Now()
	buf, err := os.ReadFile(name)
	fs.ReadDone(len(buf), err)
	if dur := time.Since(started); dur > slowThreshold {
		logSlow(ctx, name, dur, err)
	}
	return buf, err
}

// Lstat returns a FileInfo describing the named file.
func (fs *OSFS) Lstat(ctx context.Context, name string) (fs.FileInfo, error) {
	started := time.Now()
	fi, err := os.Lstat(name)
	fs.OpsDone(err)
	if dur := time.Since(started); dur > slowThreshold {
		logSlow(ctx, name, dur, err)
	}
	return fi, err
}

// Readlink returns the destination of the named symbolic link.
func (fs *OSFS) Readlink(ctx context.Context, name string) (string, error) {
	started := time.Now()
	target, err := os.Readlink(name)
	fs.OpsDone(err)
	if dur := time.Since(started); dur > slowThreshold {
		logSlow(ctx, name, dur, err)
	}
	return target, err
}

// IsSymlink reports whether the named file is a symbolic link.
// It returns an error wrapping fs.ErrNotExist if the file doesn't exist.
func (fs *OSFS) IsSymlink(ctx context.Context, name string) (bool, error) {
	fi, err := fs.Lstat(ctx, name)
	if err != nil {
		return false, err
	}
	return fs.isSymlink(ctx, name, fi), nil
}

// Remove removes the named file or empty directory.
func (fs *OSFS) Remove(ctx context.Context, name string) error {
	started := time.Now()
	err := os.Remove(name)
	fs.RemoveDone(err)
	if dur := time.Since(started); dur > slowThreshold {
		logSlow(ctx, name, dur, err)
	}
	return err
}

// RemoveAll removes the named path and any children it contains.
// It doesn't follow the path if it is a symbolic link.
func (fs *OSFS) RemoveAll(ctx context.Context, name string) error {
	started := time.Now()
	err := os.RemoveAll(name)
	fs.RemoveDone(err)
	if dur := time.Since(started); dur > slowThreshold {
		logSlow(ctx, name, dur, err)
	}
	return err
}
