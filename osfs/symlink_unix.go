// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package osfs

import (
	"context"
	"io/fs"
)

func (*OSFS) isSymlink(ctx context.Context, name string, fi fs.FileInfo) bool {
	return fi.Mode()&fs.ModeSymlink != 0
}
