// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"io"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/eit/sciospec"
)

// Bursts2TDAQ encodes bursts into the body of a TDAQ data frame.
//
// The layout is:
//
//	u32 nbursts
//	nbursts x {
//	  u32 nframes
//	  nframes x {
//	    u32 group, src, sink, row, timestamp
//	    16 x {f32 re, f32 im}
//	  }
//	}
func Bursts2TDAQ(w io.Writer, bursts [][]sciospec.Frame) error {
	enc := tdaq.NewEncoder(w)
	enc.WriteU32(uint32(len(bursts)))
	for _, burst := range bursts {
		enc.WriteU32(uint32(len(burst)))
		for i := range burst {
			f := &burst[i]
			enc.WriteU32(uint32(f.ChannelGroup))
			enc.WriteU32(uint32(f.Excitation[0]))
			enc.WriteU32(uint32(f.Excitation[1]))
			enc.WriteU32(uint32(f.FrequencyRow[0])<<8 | uint32(f.FrequencyRow[1]))
			enc.WriteU32(f.Timestamp)
			for _, v := range f.Channels {
				enc.WriteF32(real(v))
				enc.WriteF32(imag(v))
			}
		}
	}
	if err := enc.Err(); err != nil {
		return fmt.Errorf("could not encode bursts: %w", err)
	}
	return nil
}

// TDAQ2Bursts decodes bursts encoded with Bursts2TDAQ.
func TDAQ2Bursts(r io.Reader) ([][]sciospec.Frame, error) {
	dec := tdaq.NewDecoder(r)
	n := dec.ReadU32()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("could not decode number of bursts: %w", err)
	}

	// counts come off the wire: grow slices as frames are decoded.
	var bursts [][]sciospec.Frame
	for ib := uint32(0); ib < n; ib++ {
		nframes := dec.ReadU32()
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("could not decode number of frames of burst %d: %w", ib, err)
		}
		var burst []sciospec.Frame
		for i := uint32(0); i < nframes; i++ {
			var f sciospec.Frame
			f.StartTag = 0xb4
			f.EndTag = 0xb4
			f.ChannelGroup = uint8(dec.ReadU32())
			f.Excitation[0] = uint8(dec.ReadU32())
			f.Excitation[1] = uint8(dec.ReadU32())
			row := dec.ReadU32()
			f.FrequencyRow = [2]byte{byte(row >> 8), byte(row)}
			f.Timestamp = dec.ReadU32()
			for ch := range f.Channels {
				re := dec.ReadF32()
				im := dec.ReadF32()
				f.Channels[ch] = complex(re, im)
			}
			if err := dec.Err(); err != nil {
				return nil, fmt.Errorf("could not decode frame %d of burst %d: %w", i, ib, err)
			}
			burst = append(burst, f)
		}
		bursts = append(bursts, burst)
	}

	return bursts, nil
}
