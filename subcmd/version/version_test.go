// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package version

import (
	"strings"
	"testing"
)

func TestCIPDURL(t *testing.T) {
	got := cipdURL("infra/tools/ninjabazel/linux-amd64", "abc123")
	if !strings.HasSuffix(got, "/p/infra/tools/ninjabazel/linux-amd64/+/abc123") {
		t.Errorf("cipdURL=%q; want suffix /p/infra/tools/ninjabazel/linux-amd64/+/abc123", got)
	}
	if !strings.HasPrefix(got, "https://") {
		t.Errorf("cipdURL=%q; want https URL", got)
	}
}

func TestPrintBuildInfo(t *testing.T) {
	var sb strings.Builder
	printBuildInfo(&sb)
	// test binaries have build info.
	if !strings.HasPrefix(sb.String(), "go\t") {
		t.Errorf("printBuildInfo=%q; want go version line", sb.String())
	}
}
