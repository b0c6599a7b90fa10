// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package bazelbuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/ninjabazel/build/dispatch"
	"go.chromium.org/infra/build/ninjabazel/build/handoff"
)

const targetsUsage = `print bazel targets that the requested ninja targets depend on.

 $ ninjabazel targets [-C <dir>] [--ninja-file <file>] [--integration-debug]

resolves bazel targets as "ninjabazel build" does, and prints them
one per line, without running bazel.
The request file ` + handoff.RequestFile + ` is consumed.

It exits with 1 if no bazel target is found.
`

// TargetsCmd returns the Command for the `targets` subcommand provided by this package.
func TargetsCmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "targets [-C <dir>] [--ninja-file <file>] [--integration-debug]",
		ShortDesc: "print bazel targets that ninja targets depend on",
		LongDesc:  targetsUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &targetsRun{deps: defaultDeps(), stdout: os.Stdout}
			c.init()
			return c
		},
	}
}

type targetsRun struct {
	subcommands.CommandRunBase
	options
	deps   deps
	stdout io.Writer
}

func (c *targetsRun) init() {
	c.options.register(&c.Flags)
}

// Run runs the `targets` subcommand.
func (c *targetsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	started := time.Now()
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	return exitCode(c.stdout, err, time.Since(started), func(string) {})
}

func (c *targetsRun) run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return flagError{err: fmt.Errorf("position arguments not expected: %q", args)}
	}
	ctx, dir, err := c.setup(ctx)
	if err != nil {
		return err
	}
	_, res, err := c.resolve(ctx, c.deps, dir)
	if err != nil {
		return err
	}
	if len(res.Targets) == 0 {
		err := dispatch.NoTargetsError{Result: res}
		fmt.Fprint(c.stdout, err.Diagnostic())
		return err
	}
	for _, t := range res.Targets {
		fmt.Fprintln(c.stdout, t)
	}
	return nil
}
