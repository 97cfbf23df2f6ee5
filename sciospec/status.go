// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import "fmt"

// Status is a system message code emitted by the device.
type Status uint8

const (
	StatusNoMessage     Status = 0x01
	StatusTimeout       Status = 0x02
	StatusWakeUp        Status = 0x04
	StatusTCPSocket     Status = 0x11
	StatusNotExecuted   Status = 0x81
	StatusNotRecognized Status = 0x82
	StatusAck           Status = 0x83
	StatusReady         Status = 0x84
	StatusDataHoldup    Status = 0x91
)

var statusText = map[Status]string{
	StatusNoMessage:     "No message inside the message buffer",
	StatusTimeout:       "Timeout: Communication-timeout (less data than expected)",
	StatusWakeUp:        "Wake-Up Message: System boot ready",
	StatusTCPSocket:     "TCP-Socket: Valid TCP client-socket connection",
	StatusNotExecuted:   "Not-Acknowledge: Command has not been executed",
	StatusNotRecognized: "Not-Acknowledge: Command could not be recognized",
	StatusAck:           "Command-Acknowledge: Command has been executed successfully",
	StatusReady:         "System-Ready Message: System is operational and ready to receive data",
	StatusDataHoldup:    "Data holdup: Measurement data could not be sent via the master interface",
}

func (st Status) String() string {
	if txt, ok := statusText[st]; ok {
		return txt
	}
	return fmt.Sprintf("Status(0x%02x)", uint8(st))
}

// Known reports whether st is part of the status table.
func (st Status) Known() bool {
	_, ok := statusText[st]
	return ok
}

// NACK reports whether st signals a rejected command.
func (st Status) NACK() bool {
	return st == StatusNotExecuted || st == StatusNotRecognized
}

// DecodeStatus locates the first system message marker in p and decodes
// the status code found two bytes after it.
// DecodeStatus returns StatusNoMessage and false when the marker is
// missing, truncated or followed by an unknown code.
func DecodeStatus(p []byte) (Status, bool) {
	for i, b := range p {
		if b != statusMarker {
			continue
		}
		if i+2 >= len(p) {
			break
		}
		st := Status(p[i+2])
		if !st.Known() {
			break
		}
		return st, true
	}
	return StatusNoMessage, false
}

// RecvMode selects what a response read returns.
type RecvMode uint8

const (
	RecvNone RecvMode = 0
	RecvRaw  RecvMode = 1 << 0 // return the raw bytes
	RecvHex  RecvMode = 1 << 1 // return the hex tokens
	RecvBoth          = RecvRaw | RecvHex

	// RecvNoStatus disables the system message interpretation,
	// for bulk measurement captures.
	RecvNoStatus RecvMode = 1 << 2
)

// Response is the content drained from the device after a command.
type Response struct {
	Raw []byte   // raw bytes, when RecvRaw was requested
	Hex []string // hex tokens, when RecvHex was requested
	Len int      // number of bytes drained

	Status    Status // decoded system message
	HasStatus bool   // whether a known system message was found
}
