// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"reflect"
	"testing"
)

func newTestFrame(grp, src, sink uint8, ts uint32) Frame {
	f := Frame{
		StartTag:     frameTag,
		ChannelGroup: grp,
		Excitation:   [2]uint8{src, sink},
		FrequencyRow: [2]byte{0x00, 0x01},
		Timestamp:    ts,
		EndTag:       frameTag,
	}
	for i := range f.Channels {
		f.Channels[i] = complex(float32(i+1)*0.5+float32(ts), -float32(i)*0.25)
	}
	return f
}

func TestParseFrame(t *testing.T) {
	raw := []byte{
		0xb4,       // start tag
		0x00,       // reserved
		0x02,       // channel group
		0x01, 0x03, // excitation
		0x00, 0x01, // frequency row
		0x00, 0x00, 0x01, 0x00, // timestamp
	}
	for i := 0; i < NumChans; i++ {
		raw = append(raw, 0x3f, 0x80, 0x00, 0x00) // 1
		raw = append(raw, 0xc0, 0x00, 0x00, 0x00) // -2
	}
	raw = append(raw, 0xb4)
	if len(raw) != FrameSize {
		t.Fatalf("invalid test frame size: %d", len(raw))
	}

	f, err := ParseFrame(raw)
	if err != nil {
		t.Fatalf("could not parse frame: %+v", err)
	}

	if got, want := f.ChannelGroup, uint8(2); got != want {
		t.Fatalf("invalid channel group: got=%d, want=%d", got, want)
	}
	if got, want := f.Excitation, [2]uint8{1, 3}; got != want {
		t.Fatalf("invalid excitation: got=%v, want=%v", got, want)
	}
	if got, want := f.FrequencyRow, [2]byte{0, 1}; got != want {
		t.Fatalf("invalid frequency row: got=%v, want=%v", got, want)
	}
	if got, want := f.Timestamp, uint32(256); got != want {
		t.Fatalf("invalid timestamp: got=%d, want=%d", got, want)
	}
	for i, v := range f.Channels {
		if v != complex(1, -2) {
			t.Fatalf("invalid channel %d: got=%v", i+1, v)
		}
	}

	ch, err := f.Channel(16)
	if err != nil {
		t.Fatalf("could not get channel 16: %+v", err)
	}
	if ch != complex(1, -2) {
		t.Fatalf("invalid channel 16: got=%v", ch)
	}
	if _, err := f.Channel(17); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("invalid error: %+v", err)
	}

	if got, want := f.Electrode(1), 17; got != want {
		t.Fatalf("invalid electrode: got=%d, want=%d", got, want)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	want := newTestFrame(3, 5, 7, 0xdeadbeef)
	raw := AppendFrame(nil, want)
	if len(raw) != FrameSize {
		t.Fatalf("invalid frame size: got=%d, want=%d", len(raw), FrameSize)
	}
	if raw[0] != raw[FrameSize-1] {
		t.Fatalf("frame tags mismatch")
	}

	got, err := ParseFrame(raw)
	if err != nil {
		t.Fatalf("could not parse frame: %+v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid round-trip:\ngot= %+v\nwant=%+v", got, want)
	}

	// zero tags default to the frame tag.
	raw = AppendFrame([]byte{0x01, 0x02}, Frame{ChannelGroup: 1})
	if got, want := len(raw), 2+FrameSize; got != want {
		t.Fatalf("invalid buffer size: got=%d, want=%d", got, want)
	}
	f, err := ParseFrame(raw[2:])
	if err != nil {
		t.Fatalf("could not parse frame: %+v", err)
	}
	if f.StartTag != frameTag || f.EndTag != frameTag {
		t.Fatalf("invalid tags: start=0x%02x, end=0x%02x", f.StartTag, f.EndTag)
	}
}

func TestParseFrameInvalid(t *testing.T) {
	valid := AppendFrame(nil, newTestFrame(1, 1, 2, 42))

	for _, tc := range []struct {
		name string
		raw  func() []byte
		want string
	}{
		{
			name: "short",
			raw:  func() []byte { return valid[:FrameSize-1] },
			want: "sciospec: invalid frame length at offset 0 (want=140 bytes, got=139 bytes)",
		},
		{
			name: "long",
			raw:  func() []byte { return append(append([]byte(nil), valid...), 0xb4) },
			want: "sciospec: invalid frame length at offset 0 (want=140 bytes, got=141 bytes)",
		},
		{
			name: "empty",
			raw:  func() []byte { return nil },
			want: "sciospec: invalid frame length at offset 0 (want=140 bytes, got=0 bytes)",
		},
		{
			name: "start-tag",
			raw: func() []byte {
				p := append([]byte(nil), valid...)
				p[0] = 0x00
				p[FrameSize-1] = 0x00
				return p
			},
			want: "sciospec: invalid frame start tag (got=0x00, want=0xb4) at offset 0",
		},
		{
			name: "end-tag",
			raw: func() []byte {
				p := append([]byte(nil), valid...)
				p[FrameSize-1] = 0x18
				return p
			},
			want: "sciospec: frame end tag mismatch (got=0x18, want=0xb4) at offset 139",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFrame(tc.raw())
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
			}
			if !errors.Is(err, ErrFrameFormat) {
				t.Fatalf("error should be a frame format error")
			}
		})
	}
}
