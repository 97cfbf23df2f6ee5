// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"
)

// Transport is a byte link to a device.
//
// Read returns 0, nil when no byte arrived within the transport's own
// read timeout. io.EOF ends the current response.
type Transport interface {
	io.Writer
	Read(p []byte) (int, error)
}

// Device drives a ScioSpec EIT device over a transport.
//
// Commands are strictly sequential: each command is written and its
// response drained before the next one is issued.
// A Device is not safe for concurrent use.
type Device struct {
	tr  Transport
	msg *log.Logger
	cfg options

	rbuf []byte
	now  func() time.Time
}

// New returns a device driver communicating over tr.
func New(tr Transport, opts ...Option) *Device {
	cfg := newOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Device{
		tr:   tr,
		msg:  cfg.msg,
		cfg:  cfg,
		rbuf: make([]byte, cfg.rbuf),
		now:  time.Now,
	}
}

// Write sends the command to the device, without reading its response.
func (dev *Device) Write(cmd Command) error {
	p := cmd.Bytes()
	n, err := dev.tr.Write(p)
	switch {
	case err != nil:
		return &TransportError{Op: "write", Err: err}
	case n != len(p):
		return &TransportError{Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

// Recv drains the transport until it stays idle and returns what was
// received, as selected by mode.
// Unless RecvNoStatus is set, the first system message is decoded and
// logged.
func (dev *Device) Recv(mode RecvMode) (Response, error) {
	var resp Response
	raw, err := dev.drain()
	if err != nil {
		return resp, err
	}
	resp.Len = len(raw)

	if mode&RecvNoStatus == 0 {
		resp.Status, resp.HasStatus = DecodeStatus(raw)
		dev.msg.Printf("%v", resp.Status)
		if resp.HasStatus {
			dev.msg.Printf("message buffer: % x", raw)
			dev.msg.Printf("message length: %d", len(raw))
		}
	}

	if mode&RecvRaw != 0 {
		resp.Raw = raw
	}
	if mode&RecvHex != 0 {
		resp.Hex = HexTokens(raw)
	}
	return resp, nil
}

// drain reads until the link has been quiet for the idle timeout.
func (dev *Device) drain() ([]byte, error) {
	var (
		buf  []byte
		last = dev.now()
	)
	for {
		n, err := dev.tr.Read(dev.rbuf)
		if n > 0 {
			buf = append(buf, dev.rbuf[:n]...)
			last = dev.now()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, &TransportError{Op: "read", Err: err}
		}
		if n > 0 {
			continue
		}
		if dev.now().Sub(last) >= dev.cfg.idle {
			return buf, nil
		}
	}
}

// Send writes the command and drains its response.
func (dev *Device) Send(cmd Command) (Response, error) {
	err := dev.Write(cmd)
	if err != nil {
		return Response{}, err
	}
	return dev.Recv(RecvBoth)
}

func (dev *Device) do(cmd Command, err error) (Status, error) {
	if err != nil {
		return StatusNoMessage, err
	}
	resp, err := dev.Send(cmd)
	if err != nil {
		return resp.Status, err
	}
	return resp.Status, nil
}

// SaveSettings stores the current setup in the device flash.
func (dev *Device) SaveSettings() (Status, error) {
	return dev.do(CmdSaveSettings(), nil)
}

// SoftwareReset restarts the device.
func (dev *Device) SoftwareReset() (Status, error) {
	return dev.do(CmdSoftwareReset(), nil)
}

// ResetSetup clears the measurement setup.
func (dev *Device) ResetSetup() (Status, error) {
	return dev.do(CmdResetSetup(), nil)
}

// SetBurstCount sets the number of bursts of the next measurement.
func (dev *Device) SetBurstCount(n int) (Status, error) {
	return dev.do(CmdBurstCount(n))
}

// SetFrameRate sets the number of frames per second.
func (dev *Device) SetFrameRate(fps float32) (Status, error) {
	return dev.do(CmdFrameRate(fps))
}

// SetExcitationFreqs adds an excitation frequency block.
func (dev *Device) SetExcitationFreqs(fmin, fmax float32, count uint16, scale FreqScale) (Status, error) {
	return dev.do(CmdExcitationFreqs(fmin, fmax, count, scale))
}

// SetAmplitude sets the excitation amplitude, in ampere.
func (dev *Device) SetAmplitude(amp float64) (Status, error) {
	return dev.do(CmdAmplitude(amp))
}

// SetLED disables the automatic mode of the LED and switches it to mode.
func (dev *Device) SetLED(led int, mode LEDMode) (Status, error) {
	st, err := dev.SetLEDAutoMode(led, false)
	if err != nil {
		return st, err
	}
	return dev.do(CmdLEDMode(led, mode))
}

// SetLEDAutoMode enables or disables the automatic mode of a LED.
func (dev *Device) SetLEDAutoMode(led int, enable bool) (Status, error) {
	return dev.do(CmdLEDAutoMode(led, enable))
}

// SetAllLEDAutoMode enables or disables the automatic mode of all LEDs.
func (dev *Device) SetAllLEDAutoMode(enable bool) error {
	for led := 1; led <= 4; led++ {
		_, err := dev.SetLEDAutoMode(led, enable)
		if err != nil {
			return fmt.Errorf("sciospec: could not set auto mode of LED %d: %w", led, err)
		}
	}
	return nil
}

// PowerPlugDetect queries whether the power plug is connected.
func (dev *Device) PowerPlugDetect() (Response, error) {
	return dev.Send(CmdPowerPlugDetect())
}

// DeviceInfo queries the device identification.
func (dev *Device) DeviceInfo() (Response, error) {
	return dev.Send(CmdDeviceInfo())
}

// FirmwareIDs queries the firmware identifiers.
func (dev *Device) FirmwareIDs() (Response, error) {
	return dev.Send(CmdFirmwareIDs())
}

// SetupEntry is the device answer to a measurement setup query.
type SetupEntry struct {
	Op   SetupOpcode
	Resp Response
}

// GetMeasurementSetup queries every entry of the measurement setup.
func (dev *Device) GetMeasurementSetup() ([]SetupEntry, error) {
	ops := []SetupOpcode{
		OpBurstCount, OpFrameRate, OpExcitationFreq, OpAmplitude,
		OpInjection, OpMeasureMode, OpGain, OpSwitchType, OpADCRange,
	}
	entries := make([]SetupEntry, 0, len(ops))
	for _, op := range ops {
		resp, err := dev.Send(CmdGetSetup(op))
		if err != nil {
			return entries, fmt.Errorf("sciospec: could not get %v: %w", op, err)
		}
		entries = append(entries, SetupEntry{Op: op, Resp: resp})
	}
	return entries, nil
}

// SetOutputConfiguration selects the additional fields carried by each
// measurement frame.
func (dev *Device) SetOutputConfiguration(exc, row, ts bool) error {
	for _, v := range []struct {
		opt    uint8
		enable bool
	}{
		{OutExcitation, exc},
		{OutTimestamp, ts},
		{OutFrequencyRow, row},
	} {
		_, err := dev.do(CmdOutputConfig(v.opt, v.enable))
		if err != nil {
			return fmt.Errorf("sciospec: could not set output configuration 0x%02x: %w", v.opt, err)
		}
	}
	return nil
}

// Configure programs the whole measurement setup into the device.
// Amplitudes above MaxAmplitude are clamped.
func (dev *Device) Configure(setup Setup) error {
	if setup.Amplitude > MaxAmplitude {
		dev.msg.Printf("amplitude %vA exceeds %vA: clamping", setup.Amplitude, MaxAmplitude)
		setup.Amplitude = MaxAmplitude
	}

	err := setup.Validate()
	if err != nil {
		return fmt.Errorf("sciospec: invalid setup: %w", err)
	}

	plan, err := BurstPlan(setup.BurstCount, dev.cfg.bursts)
	if err != nil {
		return fmt.Errorf("sciospec: could not plan bursts: %w", err)
	}

	steps := []struct {
		name string
		fct  func() (Status, error)
	}{
		{"reset setup", dev.ResetSetup},
		{"burst count", func() (Status, error) { return dev.SetBurstCount(plan[0]) }},
		{"amplitude", func() (Status, error) { return dev.SetAmplitude(setup.Amplitude) }},
		{"ADC range", func() (Status, error) { return dev.do(CmdADCRange(setup.ADCRange)) }},
		{"gain", func() (Status, error) { return dev.do(CmdGain(setup.Gain)) }},
		{"measure mode", func() (Status, error) { return dev.do(CmdMeasureMode(1, 1), nil) }},
		{"switch type", func() (Status, error) { return dev.do(CmdSwitchType(1), nil) }},
		{"frame rate", func() (Status, error) { return dev.SetFrameRate(setup.FrameRate) }},
		{"excitation frequencies", func() (Status, error) {
			return dev.SetExcitationFreqs(setup.ExcFreq, setup.ExcFreq, 1, LinearScale)
		}},
	}
	for _, step := range steps {
		st, err := step.fct()
		if err != nil {
			return fmt.Errorf("sciospec: could not set %s: %w", step.name, err)
		}
		if st.NACK() {
			dev.msg.Printf("%s: %v", step.name, st)
		}
	}

	for _, pair := range setup.Injections() {
		st, err := dev.do(CmdInjection(pair[0], pair[1]), nil)
		if err != nil {
			return fmt.Errorf("sciospec: could not set injection %d-%d: %w", pair[0], pair[1], err)
		}
		if st.NACK() {
			dev.msg.Printf("injection %d-%d: %v", pair[0], pair[1], st)
		}
	}

	err = dev.SetOutputConfiguration(true, true, true)
	if err != nil {
		return err
	}

	return nil
}

// StartStopMeasurement starts a measurement, captures the measured data
// stream until the device stops on its own, and sends the stop command.
func (dev *Device) StartStopMeasurement() ([]byte, error) {
	dev.msg.Printf("starting measurement")
	err := dev.Write(CmdStart())
	if err != nil {
		return nil, fmt.Errorf("sciospec: could not start measurement: %w", err)
	}

	resp, err := dev.Recv(RecvRaw | RecvNoStatus)
	if err != nil {
		return nil, fmt.Errorf("sciospec: could not capture measurement: %w", err)
	}

	dev.msg.Printf("stopping measurement")
	err = dev.Write(CmdStop())
	if err != nil {
		return resp.Raw, fmt.Errorf("sciospec: could not stop measurement: %w", err)
	}

	_, err = dev.Recv(RecvNone | RecvNoStatus)
	if err != nil {
		return resp.Raw, fmt.Errorf("sciospec: could not drain stop acknowledgment: %w", err)
	}

	return resp.Raw, nil
}

// Measure runs the capture described by cfg, splitting the requested
// bursts into supported burst counts, and returns the reassembled bursts.
func (dev *Device) Measure(cfg Config) ([][]Frame, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("sciospec: invalid configuration: %w", err)
	}

	plan, err := BurstPlan(cfg.BurstCount, dev.cfg.bursts)
	if err != nil {
		return nil, fmt.Errorf("sciospec: could not plan bursts: %w", err)
	}
	dev.msg.Printf("burst plan: %v", plan)

	bursts := make([][]Frame, 0, cfg.BurstCount)
	for i, n := range plan {
		st, err := dev.SetBurstCount(n)
		if err != nil {
			return nil, fmt.Errorf("sciospec: could not set burst count for chunk %d: %w", i, err)
		}
		if st.NACK() {
			dev.msg.Printf("chunk %d: burst count %d: %v", i, n, st)
		}

		raw, err := dev.StartStopMeasurement()
		if err != nil {
			return nil, fmt.Errorf("sciospec: could not measure chunk %d: %w", i, err)
		}

		sub := cfg
		sub.BurstCount = n
		chunk, err := Reassemble(raw, sub)
		if err != nil {
			return nil, fmt.Errorf("sciospec: could not reassemble chunk %d: %w", i, err)
		}
		bursts = append(bursts, chunk...)
	}

	return bursts, nil
}
