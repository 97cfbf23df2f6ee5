// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestHexToken(t *testing.T) {
	for _, tc := range []struct {
		b    byte
		want string
	}{
		{0x00, "00"},
		{0x05, "05"},
		{0x18, "18"},
		{0xb4, "b4"},
		{0xff, "ff"},
	} {
		got := HexToken(tc.b)
		if got != tc.want {
			t.Fatalf("invalid token for 0x%02x: got=%q, want=%q", tc.b, got, tc.want)
		}
	}

	got := HexTokens([]byte{0xb4, 0x01, 0x01, 0xb4})
	want := []string{"b4", "01", "01", "b4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid tokens:\ngot= %q\nwant=%q", got, want)
	}
}

func TestStripPrefix(t *testing.T) {
	got := StripPrefix([]string{"0x5", "0XB4", "b4", "0x18", " 0xa ", "ff"})
	want := []string{"05", "b4", "b4", "18", "0a", "ff"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid tokens:\ngot= %q\nwant=%q", got, want)
	}
}

func TestParseTokens(t *testing.T) {
	for _, tc := range []struct {
		name string
		toks []string
		want []byte
		err  error
	}{
		{
			name: "empty",
			toks: nil,
			want: []byte{},
		},
		{
			name: "prefixed",
			toks: []string{"0xb4", "0x1", "0x0", "0xb4"},
			want: []byte{0xb4, 0x01, 0x00, 0xb4},
		},
		{
			name: "bare",
			toks: []string{"18", "01", "83", "18"},
			want: []byte{0x18, 0x01, 0x83, 0x18},
		},
		{
			name: "too-long",
			toks: []string{"18", "183"},
			err:  errors.New(`sciospec: invalid hex token "183" at offset 1 (want=2 bytes, got=3 bytes)`),
		},
		{
			name: "not-hex",
			toks: []string{"zz"},
			err:  errors.New(`sciospec: invalid hex token "zz" at offset 0`),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTokens(tc.toks)
			switch {
			case err != nil && tc.err != nil:
				if got, want := err.Error(), tc.err.Error(); got != want {
					t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
				}
				if !errors.Is(err, ErrFrameFormat) {
					t.Fatalf("error should be a frame format error: %+v", err)
				}
				return
			case err != nil && tc.err == nil:
				t.Fatalf("could not parse tokens: %+v", err)
			case err == nil && tc.err != nil:
				t.Fatalf("expected an error (%v)", tc.err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid bytes:\ngot= % x\nwant=% x", got, tc.want)
			}
		})
	}
}

func TestToFloat32(t *testing.T) {
	for _, tc := range []struct {
		raw  []byte
		want float32
	}{
		{[]byte{0x3f, 0x80, 0x00, 0x00}, 1},
		{[]byte{0xc0, 0x00, 0x00, 0x00}, -2},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x47, 0xf4, 0x24, 0x00}, 125000},
		{[]byte{0x3d, 0xcc, 0xcc, 0xcd}, 0.1},
	} {
		got, err := ToFloat32(tc.raw)
		if err != nil {
			t.Fatalf("could not decode % x: %+v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("invalid value for % x: got=%v, want=%v", tc.raw, got, tc.want)
		}

		if enc := PutFloat32(nil, got); !reflect.DeepEqual(enc, tc.raw) {
			t.Fatalf("invalid round-trip: got=% x, want=% x", enc, tc.raw)
		}
	}

	for _, v := range []float32{
		0, 1, -1, 0.5, 1e-7, 3.4e38, -125e3,
		math.Float32frombits(0x7f800000), // +inf
		math.SmallestNonzeroFloat32,
	} {
		raw := PutFloat32(nil, v)
		got, err := ToFloat32(raw)
		if err != nil {
			t.Fatalf("could not decode %v: %+v", v, err)
		}
		if got != v {
			t.Fatalf("invalid round-trip: got=%v, want=%v", got, v)
		}
	}

	for _, n := range []int{0, 3, 5, 8} {
		_, err := ToFloat32(make([]byte, n))
		if err == nil {
			t.Fatalf("expected an error for %d bytes", n)
		}
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("invalid error type %T", err)
		}
		if ferr.Want != 4 || ferr.Got != n {
			t.Fatalf("invalid error lengths: want=%d, got=%d", ferr.Want, ferr.Got)
		}
	}
}

func TestToUint(t *testing.T) {
	for _, tc := range []struct {
		raw  []byte
		want uint64
	}{
		{nil, 0},
		{[]byte{0x2a}, 42},
		{[]byte{0x00, 0x64}, 100},
		{[]byte{0x01, 0x00, 0x00}, 65536},
		{[]byte{0x00, 0x00, 0x03, 0xe8}, 1000},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, math.MaxUint64},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, 1},
		{[]byte{0, 0, 0, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, 0x0102030405060708},
		{make([]byte, 16), 0},
	} {
		got, err := ToUint(tc.raw)
		if err != nil {
			t.Fatalf("could not decode % x: %+v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("invalid value for % x: got=%d, want=%d", tc.raw, got, tc.want)
		}
	}

	for _, raw := range [][]byte{
		{0x01, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0x01, 0, 0, 0, 0, 0, 0, 0, 0},
	} {
		_, err := ToUint(raw)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("invalid error for % x: %+v", raw, err)
		}
	}
}

func TestPutFloat64(t *testing.T) {
	got := PutFloat64(nil, 0.01)
	want := []byte{0x3f, 0x84, 0x7a, 0xe1, 0x47, 0xae, 0x14, 0x7b}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid encoding:\ngot= % x\nwant=% x", got, want)
	}
}
