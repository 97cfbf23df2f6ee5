// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is reported when the underlying transport fails to
	// read or write.
	ErrTransport = errors.New("sciospec: transport error")

	// ErrInvalidArgument is reported when a precondition is violated.
	// No byte is sent to the device in that case.
	ErrInvalidArgument = errors.New("sciospec: invalid argument")

	// ErrFrameFormat is reported when a decoded unit does not match its
	// fixed layout.
	ErrFrameFormat = errors.New("sciospec: invalid frame format")
)

// TransportError describes a failed read or write on a transport.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sciospec: could not %s transport: %+v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// FormatError describes a malformed binary unit.
type FormatError struct {
	Offset int // byte offset of the offending unit in the enclosing buffer
	Want   int // expected length
	Got    int // actual length
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("sciospec: %s at offset %d (want=%d bytes, got=%d bytes)",
			e.Msg, e.Offset, e.Want, e.Got,
		)
	}
	return fmt.Sprintf("sciospec: %s at offset %d", e.Msg, e.Offset)
}

func (e *FormatError) Is(target error) bool { return target == ErrFrameFormat }

func invalidArg(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidArgument}, args...)...)
}
