// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/cipd/version"
	"go.chromium.org/luci/hardcoded/chromeinfra"
)

// Cmd returns the Command for the `version` subcommand.
func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version and the CIPD package the executable was installed from (if it was installed via CIPD).",
		CommandRun: func() subcommands.CommandRun {
			r := &versionRun{version: ver}
			return r
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version string
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	w := a.GetOut()
	fmt.Fprintln(w, c.version)
	ver, err := version.GetStartupVersion()
	if err != nil {
		// Note: this is some sort of catastrophic error. If the binary is not
		// installed via CIPD, err == nil && ver.InstanceID == "".
		fmt.Fprintf(a.GetErr(), "cannot determine CIPD package version: %s\n", err)
		return 1
	}
	if ver.InstanceID == "" {
		printBuildInfo(w)
		return 0
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "CIPD package name: %s\n", ver.PackageName)
	fmt.Fprintf(w, "CIPD instance ID:  %s\n", ver.InstanceID)
	fmt.Fprintf(w, "CIPD URL: %s\n", cipdURL(ver.PackageName, ver.InstanceID))
	return 0
}

func cipdURL(pkg, instanceID string) string {
	return fmt.Sprintf("%s/p/%s/+/%s", chromeinfra.CIPDServiceURL, pkg, instanceID)
}

func printBuildInfo(w io.Writer) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if buildInfo.GoVersion != "" {
		fmt.Fprintf(w, "go\t%s\n", buildInfo.GoVersion)
	}
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(w, "build\t%s=%s\n", s.Key, s.Value)
		}
	}
}
