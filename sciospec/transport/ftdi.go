// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"io"

	"github.com/ziutek/ftdi"
)

// FTDIConfig describes a USB-HS link through an FTDI FT232H bridge.
type FTDIConfig struct {
	VID     uint16 `json:"vid"`     // vendor ID
	PID     uint16 `json:"pid"`     // product ID
	Baud    int    `json:"baud"`    // baud rate
	Latency int    `json:"latency"` // latency timer, in ms
}

// DefaultFTDIConfig returns the configuration of a FT232H bridge.
func DefaultFTDIConfig() FTDIConfig {
	return FTDIConfig{
		VID:     0x0403,
		PID:     0x6014,
		Baud:    9000,
		Latency: 2,
	}
}

type ftdiDevice interface {
	Reset() error

	SetBitmode(iomask byte, mode ftdi.Mode) error
	SetFlowControl(flowctrl ftdi.FlowCtrl) error
	SetLatencyTimer(lt int) error
	SetWriteChunkSize(cs int) error
	SetReadChunkSize(cs int) error
	SetBaudrate(br int) error
	PurgeBuffers() error

	io.Writer
	io.Reader
	io.Closer
}

var (
	ftdiOpen = ftdiOpenImpl
)

func ftdiOpenImpl(vid, pid uint16) (ftdiDevice, error) {
	dev, err := ftdi.OpenFirst(int(vid), int(pid), ftdi.ChannelAny)
	return dev, err
}

// FTDI is a USB-HS link to a device.
type FTDI struct {
	cfg FTDIConfig
	ft  ftdiDevice
}

// OpenFTDI opens the first FTDI bridge matching cfg and configures it in
// synchronous FIFO mode.
func OpenFTDI(cfg FTDIConfig) (*FTDI, error) {
	ft, err := ftdiOpen(cfg.VID, cfg.PID)
	if err != nil {
		return nil, fmt.Errorf("transport: could not open FTDI device (vid=0x%x, pid=0x%x): %w", cfg.VID, cfg.PID, err)
	}

	dev := &FTDI{cfg: cfg, ft: ft}
	err = dev.init()
	if err != nil {
		ft.Close()
		return nil, fmt.Errorf("transport: could not initialize FTDI device (vid=0x%x, pid=0x%x): %w", cfg.VID, cfg.PID, err)
	}

	return dev, nil
}

func (dev *FTDI) init() error {
	var err error

	err = dev.ft.Reset()
	if err != nil {
		return fmt.Errorf("could not reset USB: %w", err)
	}

	err = dev.ft.PurgeBuffers()
	if err != nil {
		return fmt.Errorf("could not purge USB buffers: %w", err)
	}

	err = dev.ft.SetBitmode(0, ftdi.ModeReset)
	if err != nil {
		return fmt.Errorf("could not reset bit mode: %w", err)
	}

	err = dev.ft.SetBitmode(0x40, ftdi.ModeSyncFF)
	if err != nil {
		return fmt.Errorf("could not enable synchronous FIFO mode: %w", err)
	}

	err = dev.ft.SetFlowControl(ftdi.FlowCtrlDisable)
	if err != nil {
		return fmt.Errorf("could not disable flow control: %w", err)
	}

	if dev.cfg.Latency > 0 {
		err = dev.ft.SetLatencyTimer(dev.cfg.Latency)
		if err != nil {
			return fmt.Errorf("could not set latency timer to %d: %w", dev.cfg.Latency, err)
		}
	}

	err = dev.ft.SetWriteChunkSize(0xffff)
	if err != nil {
		return fmt.Errorf("could not set write chunk-size to 0xffff: %w", err)
	}

	err = dev.ft.SetReadChunkSize(0xffff)
	if err != nil {
		return fmt.Errorf("could not set read chunk-size to 0xffff: %w", err)
	}

	if dev.cfg.Baud > 0 {
		err = dev.ft.SetBaudrate(dev.cfg.Baud)
		if err != nil {
			return fmt.Errorf("could not set baud rate to %d: %w", dev.cfg.Baud, err)
		}
	}

	return nil
}

// Read reads from the bridge. It returns 0, nil when no data is pending.
func (dev *FTDI) Read(p []byte) (int, error) { return dev.ft.Read(p) }

func (dev *FTDI) Write(p []byte) (int, error) { return dev.ft.Write(p) }

func (dev *FTDI) Close() error {
	err := dev.ft.Close()
	if err != nil {
		return fmt.Errorf("transport: could not close FTDI device: %w", err)
	}
	return nil
}
