// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sciospec implements the binary protocol of ScioSpec EIT
// (Electrical Impedance Tomography) measurement devices.
//
// The package encodes command frames, drains and classifies the
// device responses, decodes the 140-byte measurement frames and
// reassembles a captured byte stream into bursts of frames.
package sciospec // import "github.com/go-lpc/eit/sciospec"

const (
	FrameSize = 140 // size in bytes of a measurement frame
	NumChans  = 16  // number of channels in a channel group

	frameTag     = 0xb4 // measurement frame start/end tag
	ackSize      = 4    // start-measurement acknowledgment envelope
	statusMarker = 0x18 // system message marker

	chanOffset = 11 // offset of the first channel in a frame
	chanSize   = 8  // real+imaginary float32 pair

	MaxBurstCount = 255 // largest burst count a single command can carry
	MaxAmplitude  = 0.01
	MinAmplitude  = 100e-9
)
