// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package resolve

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"go.chromium.org/infra/build/ninjabazel/build/handoff"
	"go.chromium.org/infra/build/ninjabazel/execute"
)

type fakeQuerier struct {
	inputs []string
	err    error

	fname   string
	targets []string
}

func (f *fakeQuerier) Inputs(ctx context.Context, fname string, targets []string) ([]string, error) {
	f.fname = fname
	f.targets = targets
	return f.inputs, f.err
}

type fakeCleaner struct {
	n int
}

func (f *fakeCleaner) ClearRequest(ctx context.Context) error {
	f.n++
	return nil
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses posix absolute paths")
	}
}

func TestResolve(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()
	for _, tc := range []struct {
		name      string
		requested []string
		inputs    []string
		targets   map[string]handoff.TargetInfo
		want      *Result
	}{
		{
			name:      "found",
			requested: []string{"foo", "bar"},
			inputs:    []string{"/abs/src/a.o", "/abs/src/b.o"},
			targets: map[string]handoff.TargetInfo{
				"b.o": {BazelOutput: "/abs/src/b.o", BazelTarget: "//x:b"},
			},
			want: &Result{
				Requested: []string{"foo", "bar"},
				Deps:      []string{"/abs/src/a.o", "/abs/src/b.o"},
				Outputs:   []string{"/abs/src/b.o"},
				Targets:   []string{"//x:b"},
			},
		},
		{
			name:      "not-found",
			requested: []string{"foo"},
			inputs:    []string{"/abs/src/a.o"},
			targets: map[string]handoff.TargetInfo{
				"b.o": {BazelOutput: "/abs/src/b.o", BazelTarget: "//x:b"},
			},
			want: &Result{
				Requested: []string{"foo"},
				Deps:      []string{"/abs/src/a.o"},
			},
		},
		{
			name:      "relative-and-backslash",
			requested: []string{"install-core"},
			inputs:    []string{"src/a.o", `bazel-out\k8\bin\b.o`, "/work/bazel-out/k8/bin/c.o"},
			targets: map[string]handoff.TargetInfo{
				"b": {BazelOutput: "/work/bazel-out/k8/bin/b.o", BazelTarget: "//x:b"},
				"c": {BazelOutput: "/work/bazel-out/k8/bin/c.o", BazelTarget: "//x:c"},
			},
			want: &Result{
				Requested: []string{"install-core"},
				Deps:      []string{"/work/src/a.o", "/work/bazel-out/k8/bin/b.o", "/work/bazel-out/k8/bin/c.o"},
				Outputs:   []string{"/work/bazel-out/k8/bin/b.o", "/work/bazel-out/k8/bin/c.o"},
				Targets:   []string{"//x:b", "//x:c"},
			},
		},
		{
			name:      "same-target",
			requested: []string{"all"},
			inputs:    []string{"/abs/lib.a", "/abs/lib.so", "/abs/lib.a"},
			targets: map[string]handoff.TargetInfo{
				"lib.a":  {BazelOutput: "/abs/lib.a", BazelTarget: "//x:lib"},
				"lib.so": {BazelOutput: "/abs/lib.so", BazelTarget: "//x:lib"},
			},
			want: &Result{
				Requested: []string{"all"},
				Deps:      []string{"/abs/lib.a", "/abs/lib.so", "/abs/lib.a"},
				Outputs:   []string{"/abs/lib.a", "/abs/lib.so"},
				Targets:   []string{"//x:lib"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQuerier{inputs: tc.inputs}
			c := &fakeCleaner{}
			r := &Resolver{
				Querier:   q,
				Cleaner:   c,
				NinjaFile: "build.ninja",
				WorkDir:   "/work",
			}
			got, err := r.Resolve(ctx, &handoff.Request{
				Targets: tc.requested,
				BuildInfo: &handoff.BuildInfo{
					Targets:  tc.targets,
					BazelCmd: []string{"bazel", "build"},
				},
			})
			if err != nil {
				t.Fatalf("Resolve=_, %v; want nil err", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Resolve diff -want +got:\n%s", diff)
			}
			if q.fname != "build.ninja" {
				t.Errorf("queried %q; want %q", q.fname, "build.ninja")
			}
			if diff := cmp.Diff(tc.requested, q.targets); diff != "" {
				t.Errorf("queried targets diff -want +got:\n%s", diff)
			}
			if c.n != 1 {
				t.Errorf("ClearRequest called %d times; want 1", c.n)
			}
		})
	}
}

func TestResolve_QueryError(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{err: execute.ExitError{ExitCode: 1}}
	c := &fakeCleaner{}
	r := &Resolver{Querier: q, Cleaner: c, NinjaFile: "build.ninja"}
	_, err := r.Resolve(ctx, &handoff.Request{
		Targets:   []string{"foo"},
		BuildInfo: &handoff.BuildInfo{BazelCmd: []string{"bazel"}},
	})
	var eerr execute.ExitError
	if !errors.As(err, &eerr) {
		t.Fatalf("Resolve=_, %v; want ExitError", err)
	}
	if c.n != 0 {
		t.Errorf("ClearRequest called %d times; want 0", c.n)
	}
}

func TestIntersect(t *testing.T) {
	skipOnWindows(t)
	idx := handoff.OutputIndex{
		"/abs/a.o": "//x:a",
		"/abs/b.o": "//x:b",
		"/abs/c.o": "//x:c",
		"/abs/d.o": "//x:d",
	}
	for _, tc := range []struct {
		deps []string
		want []string
	}{
		{
			deps: nil,
			want: nil,
		},
		{
			deps: []string{"/abs/z.o"},
			want: nil,
		},
		{
			deps: []string{"/abs/d.o", "/abs/z.o", "/abs/a.o"},
			want: []string{"//x:a", "//x:d"},
		},
		{
			deps: []string{"/abs/a.o", "/abs/b.o", "/abs/c.o", "/abs/d.o"},
			want: []string{"//x:a", "//x:b", "//x:c", "//x:d"},
		},
	} {
		_, got := Intersect(tc.deps, idx)
		// set semantics: { idx[o] : o in deps ∩ outputs(idx) }
		if diff := cmp.Diff(tc.want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Intersect(%q) diff -want +got:\n%s", tc.deps, diff)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	skipOnWindows(t)
	for _, tc := range []struct {
		wd   string
		p    string
		want string
	}{
		{
			wd:   "/work",
			p:    "/abs/src/a.o",
			want: "/abs/src/a.o",
		},
		{
			wd:   "/work",
			p:    "src/a.o",
			want: "/work/src/a.o",
		},
		{
			wd:   "/work/out",
			p:    "../src/./a.o",
			want: "/work/src/a.o",
		},
		{
			wd:   "/work",
			p:    `bazel-out\k8-fastbuild\bin\a.o`,
			want: "/work/bazel-out/k8-fastbuild/bin/a.o",
		},
	} {
		got := NormalizePath(tc.wd, tc.p)
		if got != tc.want {
			t.Errorf("NormalizePath(%q, %q)=%q; want %q", tc.wd, tc.p, got, tc.want)
		}
	}
}
