// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eit

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	const root = "github.com/go-lpc/eit"
	for _, tc := range []struct {
		name string
		info *debug.BuildInfo
		vers string
		sum  string
	}{
		{
			name: "nil",
		},
		{
			name: "no-dep",
			info: &debug.BuildInfo{},
		},
		{
			name: "dep",
			info: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: "go.bug.st/serial", Version: "v1.6.2"},
				{Path: root, Version: "v0.3.0", Sum: "h1:xyz"},
			}},
			vers: "v0.3.0",
			sum:  "h1:xyz",
		},
		{
			name: "replace-path-version",
			info: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.3.0", Replace: &debug.Module{Path: "example.org/eit", Version: "v0.3.1", Sum: "h1:abc"}},
			}},
			vers: "example.org/eit v0.3.1",
			sum:  "h1:abc",
		},
		{
			name: "replace-version",
			info: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.3.0", Replace: &debug.Module{Version: "v0.3.1", Sum: "h1:abc"}},
			}},
			vers: "v0.3.1",
			sum:  "h1:abc",
		},
		{
			name: "replace-path",
			info: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.3.0", Replace: &debug.Module{Path: "../eit", Sum: "h1:abc"}},
			}},
			vers: "../eit",
			sum:  "h1:abc",
		},
		{
			name: "replace-none",
			info: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.3.0", Replace: &debug.Module{}},
			}},
			vers: "v0.3.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vers, sum := versionOf(tc.info)
			if vers != tc.vers {
				t.Fatalf("invalid version: got=%q, want=%q", vers, tc.vers)
			}
			if sum != tc.sum {
				t.Fatalf("invalid sum: got=%q, want=%q", sum, tc.sum)
			}
		})
	}
}
