// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package bazelbuild implements the subcommands to build bazel targets
// that ninja targets depend on.
package bazelbuild

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/cpuid/v2"

	"go.chromium.org/infra/build/ninjabazel/build/handoff"
	"go.chromium.org/infra/build/ninjabazel/build/resolve"
	"go.chromium.org/infra/build/ninjabazel/execute"
	"go.chromium.org/infra/build/ninjabazel/execute/localexec"
	"go.chromium.org/infra/build/ninjabazel/osfs"
	"go.chromium.org/infra/build/ninjabazel/toolsupport/ninjautil"
	"go.chromium.org/infra/build/ninjabazel/ui"
)

// debugPrefix is the prefix of integration debug traces.
const debugPrefix = "BAZEL_INTEGRATION_DEBUG"

// options holds flag values shared by the subcommands.
type options struct {
	dir              string
	ninjaFile        string
	ninja            string
	integrationDebug bool
}

func (o *options) register(flags *flag.FlagSet) {
	flags.StringVar(&o.dir, "C", ".", "ninja running directory")
	flags.StringVar(&o.ninjaFile, "ninja-file", "build.ninja", "the ninja file in use (relative to -C)")
	ninja := os.Getenv("NINJA")
	if ninja == "" {
		ninja = ninjautil.DefaultNinja
	}
	flags.StringVar(&o.ninja, "ninja", ninja, "ninja executable. can set by $NINJA")
	flags.BoolVar(&o.integrationDebug, "integration-debug", false, "turn on extra debug output about the ninja-bazel integration. can set by $NINJA_BAZEL_INTEGRATION_DEBUG")
	if f := flags.Lookup("integration-debug"); f != nil {
		if s := os.Getenv("NINJA_BAZEL_INTEGRATION_DEBUG"); s != "" {
			err := f.Value.Set(s)
			if err != nil {
				ui.Default.Warningf("invalid NINJA_BAZEL_INTEGRATION_DEBUG=%q: %v", s, err)
			}
		}
	}
}

// deps holds the capabilities used by the subcommands.
// Tests replace them with fakes.
type deps struct {
	fs       *osfs.OSFS
	executor execute.Executor
}

func defaultDeps() deps {
	return deps{
		fs:       osfs.New("fs"),
		executor: localexec.LocalExec{},
	}
}

type flagError struct {
	err error
}

func (f flagError) Error() string {
	return f.err.Error()
}

// setup sets up the logger for integration debug traces in ctx,
// and returns the absolute path of the ninja running directory.
func (o *options) setup(ctx context.Context) (context.Context, string, error) {
	level := log.InfoLevel
	if o.integrationDebug {
		level = log.DebugLevel
		log.SetLevel(log.DebugLevel)
	}
	logger := log.NewWithOptions(os.Stdout, log.Options{
		Prefix: debugPrefix,
		Level:  level,
	}).With("invocation", uuid.New().String())
	ctx = log.WithContext(ctx, logger)

	dir, err := filepath.Abs(o.dir)
	if err != nil {
		return ctx, "", fmt.Errorf("abspath for -C %q: %w", o.dir, err)
	}
	if o.integrationDebug {
		logger.Debugf("%s", cpuinfo())
		logger.Debugf("%s", buildinfo())
		logger.Debugf("commandline %q", os.Args)
		logger.Debugf("dir=%s ninja=%s ninja-file=%s", dir, o.ninja, o.ninjaFile)
	}
	return ctx, dir, nil
}

// resolve loads the handoff files in dir, and resolves bazel targets.
func (o *options) resolve(ctx context.Context, d deps, dir string) (*handoff.Request, *resolve.Result, error) {
	loader := &handoff.Loader{
		FS:  d.fs,
		Dir: dir,
	}
	req, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	r := &resolve.Resolver{
		Querier: &ninjautil.Runner{
			Ninja:    o.ninja,
			Dir:      dir,
			Executor: d.executor,
		},
		Cleaner:   loader,
		NinjaFile: o.ninjaFile,
		WorkDir:   dir,
	}
	spin := ui.Default.NewSpinner()
	spin.Start("resolving bazel targets of %q", req.Targets)
	res, err := r.Resolve(ctx, req)
	if err != nil {
		spin.Stop(err)
		return nil, nil, err
	}
	spin.Done("-> %d bazel targets", len(res.Targets))
	log.FromContext(ctx).Debugf("%s %s", d.fs.Name(), d.fs.Stats())
	return req, res, nil
}

func cpuinfo() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cpu family=%d model=%d stepping=%d ", cpuid.CPU.Family, cpuid.CPU.Model, cpuid.CPU.Stepping)
	fmt.Fprintf(&sb, "brand=%q vendor=%q ", cpuid.CPU.BrandName, cpuid.CPU.VendorString)
	fmt.Fprintf(&sb, "physicalCores=%d threadsPerCore=%d logicalCores=%d ", cpuid.CPU.PhysicalCores, cpuid.CPU.ThreadsPerCore, cpuid.CPU.LogicalCores)
	fmt.Fprintf(&sb, "vm=%t", cpuid.CPU.VM())
	return sb.String()
}

func buildinfo() string {
	var sb strings.Builder
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "no buildinfo"
	}
	fmt.Fprintf(&sb, "go=%s", buildInfo.GoVersion)
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(&sb, " build_%s=%s", s.Key, s.Value)
		}
	}
	if limit := debug.SetMemoryLimit(-1); limit != math.MaxInt64 {
		fmt.Fprintf(&sb, " memory_limit=%d", limit)
	}
	return sb.String()
}
