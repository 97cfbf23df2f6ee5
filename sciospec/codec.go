// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// HexToken returns the two lowercase hexadecimal digits of b.
func HexToken(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}

// HexTokens returns the hexadecimal token of each byte of p.
func HexTokens(p []byte) []string {
	toks := make([]string, len(p))
	for i, b := range p {
		toks[i] = HexToken(b)
	}
	return toks
}

// StripPrefix normalizes textual hex tokens ("0x5", "0XB4", "b4") into
// bare two-digit lowercase tokens.
func StripPrefix(toks []string) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		tok = strings.ToLower(strings.TrimSpace(tok))
		tok = strings.TrimPrefix(tok, "0x")
		if len(tok) == 1 {
			tok = "0" + tok
		}
		out[i] = tok
	}
	return out
}

// ParseTokens converts hex tokens, possibly prefixed, into raw bytes.
func ParseTokens(toks []string) ([]byte, error) {
	toks = StripPrefix(toks)
	p := make([]byte, len(toks))
	for i, tok := range toks {
		if len(tok) != 2 {
			return nil, &FormatError{Offset: i, Want: 2, Got: len(tok), Msg: fmt.Sprintf("invalid hex token %q", tok)}
		}
		_, err := hex.Decode(p[i:i+1], []byte(tok))
		if err != nil {
			return nil, &FormatError{Offset: i, Want: 2, Got: 2, Msg: fmt.Sprintf("invalid hex token %q", tok)}
		}
	}
	return p, nil
}

// ToFloat32 interprets exactly 4 bytes as a big-endian IEEE-754 single
// precision value.
func ToFloat32(p []byte) (float32, error) {
	if len(p) != 4 {
		return 0, &FormatError{Want: 4, Got: len(p), Msg: "invalid float32 length"}
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// ToUint interprets p as a big-endian unsigned integer of any length.
// Leading zero bytes are ignored; values that do not fit in 64 bits are
// rejected.
func ToUint(p []byte) (uint64, error) {
	for len(p) > 0 && p[0] == 0 {
		p = p[1:]
	}
	if len(p) > 8 {
		return 0, invalidArg("integer overflows uint64 (%d significant bytes)", len(p))
	}
	var v uint64
	for _, b := range p {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// PutFloat32 appends the big-endian single precision encoding of v to dst.
func PutFloat32(dst []byte, v float32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	return append(dst, buf[:]...)
}

// PutFloat64 appends the big-endian double precision encoding of v to dst.
func PutFloat64(dst []byte, v float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return append(dst, buf[:]...)
}
