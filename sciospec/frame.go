// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Frame is a decoded measurement frame: one excitation stage of one
// channel group.
//
// Wire layout (140 bytes, big-endian):
//
//	[0]       start tag (0xb4)
//	[1]       reserved
//	[2]       channel group (1-4)
//	[3:5]     excitation setting: source, sink electrodes
//	[5:7]     row in the frequency stack
//	[7:11]    timestamp, in milliseconds
//	[11:139]  16 channels, each real (float32) then imaginary (float32)
//	[139]     end tag (0xb4)
type Frame struct {
	StartTag     byte
	ChannelGroup uint8
	Excitation   [2]uint8 // source, sink electrodes
	FrequencyRow [2]byte  // raw, not interpreted
	Timestamp    uint32   // milliseconds
	Channels     [NumChans]complex64
	EndTag       byte
}

// Channel returns the complex voltage measured on channel ch (1-16) of
// the frame's channel group.
func (f *Frame) Channel(ch int) (complex64, error) {
	if ch < 1 || ch > NumChans {
		return 0, invalidArg("invalid channel %d", ch)
	}
	return f.Channels[ch-1], nil
}

// Electrode returns the global electrode number (1-64) measured by
// channel ch (1-16) of the frame's channel group.
func (f *Frame) Electrode(ch int) int {
	return (int(f.ChannelGroup)-1)*NumChans + ch
}

// ParseFrame decodes exactly FrameSize bytes into a measurement frame.
func ParseFrame(p []byte) (Frame, error) {
	return parseFrameAt(p, 0)
}

// parseFrameAt decodes p, located at offset off of an enclosing buffer.
func parseFrameAt(p []byte, off int) (Frame, error) {
	var f Frame
	if len(p) != FrameSize {
		return f, &FormatError{Offset: off, Want: FrameSize, Got: len(p), Msg: "invalid frame length"}
	}

	f.StartTag = p[0]
	f.EndTag = p[FrameSize-1]
	switch {
	case f.StartTag != frameTag:
		return f, &FormatError{
			Offset: off, Want: FrameSize, Got: FrameSize,
			Msg: fmt.Sprintf("invalid frame start tag (got=0x%02x, want=0x%02x)", f.StartTag, frameTag),
		}
	case f.EndTag != f.StartTag:
		return f, &FormatError{
			Offset: off + FrameSize - 1, Want: FrameSize, Got: FrameSize,
			Msg: fmt.Sprintf("frame end tag mismatch (got=0x%02x, want=0x%02x)", f.EndTag, f.StartTag),
		}
	}

	f.ChannelGroup = p[2]
	f.Excitation = [2]uint8{p[3], p[4]}
	f.FrequencyRow = [2]byte{p[5], p[6]}
	f.Timestamp = binary.BigEndian.Uint32(p[7:11])

	for i := range f.Channels {
		beg := chanOffset + i*chanSize
		var (
			re = math.Float32frombits(binary.BigEndian.Uint32(p[beg : beg+4]))
			im = math.Float32frombits(binary.BigEndian.Uint32(p[beg+4 : beg+8]))
		)
		f.Channels[i] = complex(re, im)
	}

	return f, nil
}

// AppendFrame appends the wire representation of f to dst.
// A zero start tag is written as the default frame tag, and a zero end tag
// as the start tag.
func AppendFrame(dst []byte, f Frame) []byte {
	var (
		beg = len(dst)
		buf [FrameSize]byte
	)
	dst = append(dst, buf[:]...)
	p := dst[beg:]

	start := f.StartTag
	if start == 0 {
		start = frameTag
	}
	end := f.EndTag
	if end == 0 {
		end = start
	}

	p[0] = start
	p[2] = f.ChannelGroup
	p[3] = f.Excitation[0]
	p[4] = f.Excitation[1]
	p[5] = f.FrequencyRow[0]
	p[6] = f.FrequencyRow[1]
	binary.BigEndian.PutUint32(p[7:11], f.Timestamp)
	for i, v := range f.Channels {
		beg := chanOffset + i*chanSize
		binary.BigEndian.PutUint32(p[beg:beg+4], math.Float32bits(real(v)))
		binary.BigEndian.PutUint32(p[beg+4:beg+8], math.Float32bits(imag(v)))
	}
	p[FrameSize-1] = end

	return dst
}
