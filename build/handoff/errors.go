// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package handoff

import "fmt"

// MissingRequestFileError is an error when the request file can't be read.
type MissingRequestFileError struct {
	Name string
	Err  error
}

func (e MissingRequestFileError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Name, e.Err)
}

func (e MissingRequestFileError) Unwrap() error {
	return e.Err
}

// Remediation explains who produces the file, and how to fix the environment.
func (e MissingRequestFileError) Remediation() string {
	return fmt.Sprintf(`Failed to open %s, this is expected to be generated on ninja execution by the mongo-ninja-python module.

Make sure you are in the recommended virtualenv:
https://github.com/10gen/mongo/blob/master/docs/building.md#python-prerequisites

The command `+"`hash -r && which ninja`"+` should reference a ninja file located within the virtualenv.
If this is not the case, the virtualenv may have become corrupted and you will need to delete it
and create a new one from scratch based on the commands in the doc link above.
`, e.Name)
}

// MissingBuildInfoFileError is an error when the build info file can't be read.
type MissingBuildInfoFileError struct {
	Name string
	Err  error
}

func (e MissingBuildInfoFileError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Name, e.Err)
}

func (e MissingBuildInfoFileError) Unwrap() error {
	return e.Err
}

// Remediation explains who produces the file.
func (e MissingBuildInfoFileError) Remediation() string {
	return fmt.Sprintf("Failed to open %s, this is expected to be generated by scons during ninja generation.\n", e.Name)
}
