// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// ninjabazel builds bazel targets that ninja targets depend on.
//
// Ninja runs it as the command of the bazel build step, after writing
// the requested targets in .ninja_last_command_line_targets.txt.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/ninjabazel/subcmd/bazelbuild"
	"go.chromium.org/infra/build/ninjabazel/subcmd/version"
	"go.chromium.org/infra/build/ninjabazel/ui"
)

const versionID = "v1.0.0"

func getApplication(ctx context.Context) *cli.Application {
	return &cli.Application{
		Name:  "ninjabazel",
		Title: "Ninja-Bazel integration build tool",
		Context: func(context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			bazelbuild.Cmd(),
			bazelbuild.TargetsCmd(),
			subcommands.CmdHelp,
			version.Cmd(versionID),
		},
	}
}

func main() {
	os.Exit(ninjabazelMain())
}

// commandArgs returns args for the application.
// It runs `build` when no subcommand is given, so the command line of
// the bazel build step in build.ninja only needs flags.
func commandArgs(args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return append([]string{"build"}, args...)
	}
	return args
}

func ninjabazelMain() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer signals.HandleInterrupt(cancel)()

	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	ui.Init()
	defer ui.Restore()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, buf)
			os.Exit(1)
		}
	}()

	return subcommands.Run(getApplication(ctx), commandArgs(os.Args[1:]))
}
