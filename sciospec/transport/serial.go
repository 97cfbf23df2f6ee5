// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// SerialConfig describes a serial (COM) link.
type SerialConfig struct {
	Port        string        `json:"port"`
	Baud        int           `json:"baud"`
	ReadTimeout time.Duration `json:"read_timeout"`
}

// DefaultSerialConfig returns a 9600 bauds, 8N1, 1s read timeout config.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		Baud:        9600,
		ReadTimeout: 1 * time.Second,
	}
}

type serialPort interface {
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error

	io.Writer
	io.Reader
	io.Closer
}

var (
	serialOpen = serialOpenImpl
)

func serialOpenImpl(name string, mode *serial.Mode) (serialPort, error) {
	return serial.Open(name, mode)
}

// Serial is a serial link to a device.
type Serial struct {
	name string
	port serialPort
}

// OpenSerial opens the serial port described by cfg.
// Zero-valued fields take their value from DefaultSerialConfig.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	def := DefaultSerialConfig()
	if cfg.Baud == 0 {
		cfg.Baud = def.Baud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}

	port, err := serialOpen(cfg.Port, &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: could not open serial port %q: %w", cfg.Port, err)
	}

	err = port.SetReadTimeout(cfg.ReadTimeout)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("transport: could not set read timeout of %q: %w", cfg.Port, err)
	}

	err = port.ResetInputBuffer()
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("transport: could not reset input buffer of %q: %w", cfg.Port, err)
	}

	return &Serial{name: cfg.Port, port: port}, nil
}

func (s *Serial) Name() string { return s.name }

// Read reads from the port. It returns 0, nil on read timeout.
func (s *Serial) Read(p []byte) (int, error) { return s.port.Read(p) }

func (s *Serial) Write(p []byte) (int, error) { return s.port.Write(p) }

func (s *Serial) Close() error {
	err := s.port.Close()
	if err != nil {
		return fmt.Errorf("transport: could not close serial port %q: %w", s.name, err)
	}
	return nil
}
