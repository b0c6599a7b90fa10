// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !windows

package ui

// Init initializes the stderr settings.
// Terminals on this platform handle ANSI escape sequence as is.
func Init() {}

// Restore restores the stderr settings.
func Restore() {}
