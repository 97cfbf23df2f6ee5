// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import "fmt"

// Reassemble splits a raw capture into bursts of measurement frames.
//
// The capture starts with the 4 bytes start acknowledgment, followed by
// cfg.BurstCount contiguous bursts of equal length, each made of 140 bytes
// frames. Only frames whose channel group is selected by cfg are kept,
// in emission order.
func Reassemble(buf []byte, cfg Config) ([][]Frame, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("sciospec: could not reassemble capture: %w", err)
	}

	if len(buf) < ackSize {
		return nil, &FormatError{Offset: 0, Want: ackSize, Got: len(buf), Msg: "capture too short"}
	}

	var (
		data  = buf[ackSize:]
		size  = FrameSize * cfg.BurstCount
		extra = len(data) % size
	)
	if len(data) == 0 || extra != 0 {
		return nil, &FormatError{
			Offset: ackSize,
			Want:   len(data) - extra + size,
			Got:    len(data),
			Msg:    fmt.Sprintf("capture payload is not a multiple of %d bursts of %d bytes frames", cfg.BurstCount, FrameSize),
		}
	}

	var (
		blen    = len(data) / cfg.BurstCount
		nframes = blen / FrameSize
		bursts  = make([][]Frame, cfg.BurstCount)
	)
	for ib := range bursts {
		frames := make([]Frame, 0, nframes)
		for i := 0; i < nframes; i++ {
			beg := ackSize + ib*blen + i*FrameSize
			f, err := parseFrameAt(buf[beg:beg+FrameSize], beg)
			if err != nil {
				return nil, fmt.Errorf("sciospec: could not decode frame %d of burst %d: %w", i, ib, err)
			}
			if !cfg.HasGroup(int(f.ChannelGroup)) {
				continue
			}
			frames = append(frames, f)
		}
		bursts[ib] = frames
	}

	return bursts, nil
}

// ReassembleTokens is Reassemble for a capture stored as hex tokens.
func ReassembleTokens(toks []string, cfg Config) ([][]Frame, error) {
	buf, err := ParseTokens(toks)
	if err != nil {
		return nil, fmt.Errorf("sciospec: could not parse capture tokens: %w", err)
	}
	return Reassemble(buf, cfg)
}
