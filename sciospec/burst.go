// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import "sort"

// DefaultBursts lists the burst counts directly supported by the device.
var DefaultBursts = []int{1, 5, 10, 100}

// BurstPlan decomposes a requested total burst count into the sequence of
// per-command burst counts to configure, one start/stop cycle each.
//
// A count matching one of the supported values yields a single chunk.
// Otherwise chunks of the largest supported value are peeled off while the
// remainder exceeds it, and the remainder closes the plan.
// The chunks always sum to n.
func BurstPlan(n int, supported []int) ([]int, error) {
	if n < 1 {
		return nil, invalidArg("burst count %d must be strictly positive", n)
	}
	if len(supported) == 0 {
		supported = DefaultBursts
	}

	steps := make([]int, len(supported))
	copy(steps, supported)
	sort.Ints(steps)
	if steps[0] < 1 {
		return nil, invalidArg("supported burst count %d must be strictly positive", steps[0])
	}
	if max := steps[len(steps)-1]; max > MaxBurstCount {
		return nil, invalidArg("supported burst count %d exceeds %d", max, MaxBurstCount)
	}

	for _, v := range steps {
		if v == n {
			return []int{n}, nil
		}
	}

	var (
		max  = steps[len(steps)-1]
		plan = make([]int, 0, n/max+1)
	)
	for n > max {
		plan = append(plan, max)
		n -= max
	}
	plan = append(plan, n)

	return plan, nil
}
