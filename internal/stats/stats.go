// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats summarizes EIT measurements over bursts.
package stats // import "github.com/go-lpc/eit/internal/stats"

import (
	"math/cmplx"
	"sort"

	"github.com/go-lpc/eit/sciospec"
	"gonum.org/v1/gonum/stat"
)

// Key identifies a measured electrode for a given injection pattern.
type Key struct {
	Src       uint8
	Sink      uint8
	Electrode int
}

// Summary holds the mean and standard deviation of the magnitude and
// the phase of the voltages measured on an electrode.
type Summary struct {
	Key

	N         int
	MeanAbs   float64
	StdAbs    float64
	MeanPhase float64
	StdPhase  float64
}

// Summarize computes per-electrode statistics over all the frames of all the bursts.
// Summaries are sorted by injection pattern then by electrode.
func Summarize(bursts [][]sciospec.Frame) []Summary {
	type sample struct {
		abs []float64
		phi []float64
	}
	db := make(map[Key]*sample)
	for _, burst := range bursts {
		for i := range burst {
			f := &burst[i]
			for ch, v := range f.Channels {
				key := Key{
					Src:       f.Excitation[0],
					Sink:      f.Excitation[1],
					Electrode: f.Electrode(ch + 1),
				}
				s, ok := db[key]
				if !ok {
					s = new(sample)
					db[key] = s
				}
				z := complex128(v)
				s.abs = append(s.abs, cmplx.Abs(z))
				s.phi = append(s.phi, cmplx.Phase(z))
			}
		}
	}

	out := make([]Summary, 0, len(db))
	for key, s := range db {
		sum := Summary{Key: key, N: len(s.abs)}
		sum.MeanAbs, sum.StdAbs = meanStd(s.abs)
		sum.MeanPhase, sum.StdPhase = meanStd(s.phi)
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Key, out[j].Key
		if ki.Src != kj.Src {
			return ki.Src < kj.Src
		}
		if ki.Sink != kj.Sink {
			return ki.Sink < kj.Sink
		}
		return ki.Electrode < kj.Electrode
	})
	return out
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) < 2 {
		return stat.Mean(xs, nil), 0
	}
	return stat.MeanStdDev(xs, nil)
}
