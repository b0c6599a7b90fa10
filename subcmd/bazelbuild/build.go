// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bazelbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/ninjabazel/build/dispatch"
	"go.chromium.org/infra/build/ninjabazel/build/handoff"
	"go.chromium.org/infra/build/ninjabazel/execute"
	"go.chromium.org/infra/build/ninjabazel/ui"
)

const buildUsage = `build bazel targets that the requested ninja targets depend on.

 $ ninjabazel build [-C <dir>] [--ninja-file <file>] [--verbose] [--integration-debug]

reads the ninja targets requested on the last ninja command line
from ` + handoff.RequestFile + `, finds bazel outputs in their inputs
by "ninja -t inputs" and ` + handoff.BuildInfoFile + `,
and runs bazel to build the bazel targets producing them.

It exits with 1 if no bazel target is found.
`

// Cmd returns the Command for the `build` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "build [-C <dir>] [--ninja-file <file>] [--verbose] [--integration-debug]",
		ShortDesc: "build bazel targets that ninja targets depend on",
		LongDesc:  buildUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &buildRun{deps: defaultDeps(), stdout: os.Stdout}
			c.init()
			return c
		},
	}
}

type buildRun struct {
	subcommands.CommandRunBase
	options
	deps   deps
	stdout io.Writer

	verbose bool
	dryRun  bool
}

func (c *buildRun) init() {
	c.options.register(&c.Flags)
	c.Flags.BoolVar(&c.verbose, "verbose", false, "echo the bazel command line, and show bazel's info/debug/warning outputs")
	c.Flags.BoolVar(&c.dryRun, "n", false, "dry run. print the bazel command line without running it")
}

// Run runs the `build` subcommand.
func (c *buildRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	started := time.Now()
	ctx := cli.GetContext(a, c, env)
	n, err := c.run(ctx, args)
	return exitCode(c.stdout, err, time.Since(started), func(dur string) {
		msgPrefix := "Bazel Build Succeeded"
		if ui.IsTerminal() {
			dur = ui.SGR(ui.Bold, dur)
			msgPrefix = ui.SGR(ui.Green, msgPrefix)
		}
		ui.Default.Infof("%6s %s: %d bazel targets", dur, msgPrefix, n)
	})
}

func (c *buildRun) run(ctx context.Context, args []string) (int, error) {
	if len(args) > 0 {
		return 0, flagError{err: fmt.Errorf("position arguments not expected: %q", args)}
	}
	ctx, dir, err := c.setup(ctx)
	if err != nil {
		return 0, err
	}
	req, res, err := c.resolve(ctx, c.deps, dir)
	if err != nil {
		return 0, err
	}
	d := &dispatch.Dispatcher{
		FS:       c.deps.fs,
		Executor: c.deps.executor,
		Dir:      dir,
		Verbose:  c.verbose,
		DryRun:   c.dryRun,
		Stdout:   c.stdout,
	}
	err = d.Dispatch(ctx, res, req.BuildInfo)
	if err != nil {
		return 0, err
	}
	return len(res.Targets), nil
}

// exitCode reports err and returns the exit code for it.
// Remediations of missing handoff files are written to w.
// succeeded is called to report success.
func exitCode(w io.Writer, err error, d time.Duration, succeeded func(dur string)) int {
	dur := ui.FormatDuration(d)
	if err == nil {
		succeeded(dur)
		return 0
	}
	var errFlag flagError
	var errMissingRequest handoff.MissingRequestFileError
	var errMissingBuildInfo handoff.MissingBuildInfoFileError
	var errNoTargets dispatch.NoTargetsError
	var errExit execute.ExitError
	switch {
	case errors.As(err, &errFlag):
		ui.Default.Errorf("%v", err)
		return 2
	case errors.As(err, &errMissingRequest):
		fmt.Fprint(w, errMissingRequest.Remediation())
	case errors.As(err, &errMissingBuildInfo):
		fmt.Fprint(w, errMissingBuildInfo.Remediation())
	case errors.As(err, &errNoTargets):
		// diagnostic is already reported.
		return 1
	case errors.As(err, &errExit):
		ui.Default.Errorf("%6s Bazel Build Failure: %v", dur, err)
		return errExit.ExitCode
	}
	ui.Default.Errorf("%6s Error: %v", dur, err)
	return 1
}
