// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"reflect"
	"testing"
)

func TestCommand(t *testing.T) {
	must := func(cmd Command, err error) Command {
		t.Helper()
		if err != nil {
			t.Fatalf("could not create command: %+v", err)
		}
		return cmd
	}

	for _, tc := range []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"save-settings", CmdSaveSettings(), []byte{0x90, 0x00, 0x90}},
		{"software-reset", CmdSoftwareReset(), []byte{0xa1, 0x00, 0xa1}},
		{"device-info", CmdDeviceInfo(), []byte{0xd1, 0x00, 0xd1}},
		{"firmware-ids", CmdFirmwareIDs(), []byte{0xd2, 0x00, 0xd2}},
		{"power-plug", CmdPowerPlugDetect(), []byte{0xcc, 0x01, 0x81, 0xcc}},
		{"start", CmdStart(), []byte{0xb4, 0x01, 0x01, 0xb4}},
		{"stop", CmdStop(), []byte{0xb4, 0x01, 0x00, 0xb4}},
		{"reset-setup", CmdResetSetup(), []byte{0xb0, 0x01, 0x01, 0xb0}},
		{"burst-count-1", must(CmdBurstCount(1)), []byte{0xb0, 0x03, 0x02, 0x00, 0x01, 0xb0}},
		{"burst-count-100", must(CmdBurstCount(100)), []byte{0xb0, 0x03, 0x02, 0x00, 0x64, 0xb0}},
		{"burst-count-255", must(CmdBurstCount(255)), []byte{0xb0, 0x03, 0x02, 0x00, 0xff, 0xb0}},
		{"frame-rate", must(CmdFrameRate(1)), []byte{0xb0, 0x05, 0x03, 0x3f, 0x80, 0x00, 0x00, 0xb0}},
		{
			"excitation-freqs",
			must(CmdExcitationFreqs(125e3, 125e3, 1, LinearScale)),
			[]byte{
				0xb0, 0x0c, 0x04,
				0x47, 0xf4, 0x24, 0x00,
				0x47, 0xf4, 0x24, 0x00,
				0x00, 0x01,
				0x00,
				0xb0,
			},
		},
		{
			"amplitude",
			must(CmdAmplitude(0.01)),
			[]byte{0xb0, 0x09, 0x05, 0x3f, 0x84, 0x7a, 0xe1, 0x47, 0xae, 0x14, 0x7b, 0xb0},
		},
		{"injection", CmdInjection(1, 3), []byte{0xb0, 0x03, 0x06, 0x01, 0x03, 0xb0}},
		{"measure-mode", CmdMeasureMode(1, 1), []byte{0xb0, 0x03, 0x08, 0x01, 0x01, 0xb0}},
		{"switch-type", CmdSwitchType(1), []byte{0xb0, 0x02, 0x0c, 0x01, 0xb0}},
		{"gain-1", must(CmdGain(1)), []byte{0xb0, 0x03, 0x09, 0x01, 0x00, 0xb0}},
		{"gain-1000", must(CmdGain(1000)), []byte{0xb0, 0x03, 0x09, 0x01, 0x03, 0xb0}},
		{"adc-range-1", must(CmdADCRange(1)), []byte{0xb0, 0x02, 0x0d, 0x01, 0xb0}},
		{"adc-range-10", must(CmdADCRange(10)), []byte{0xb0, 0x02, 0x0d, 0x03, 0xb0}},
		{"get-burst-count", CmdGetSetup(OpBurstCount), []byte{0xb1, 0x01, 0x02, 0xb1}},
		{"output-exc", must(CmdOutputConfig(OutExcitation, true)), []byte{0xb2, 0x02, 0x01, 0x01, 0xb2}},
		{"output-row", must(CmdOutputConfig(OutFrequencyRow, true)), []byte{0xb2, 0x02, 0x02, 0x01, 0xb2}},
		{"output-ts-off", must(CmdOutputConfig(OutTimestamp, false)), []byte{0xb2, 0x02, 0x03, 0x00, 0xb2}},
		{"led-auto", must(CmdLEDAutoMode(2, false)), []byte{0xc8, 0x03, 0x01, 0x02, 0x00, 0xc8}},
		{"led-blink", must(CmdLEDMode(4, LEDBlink)), []byte{0xc8, 0x03, 0x02, 0x04, 0x02, 0xc8}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.cmd.Bytes()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid command:\ngot= % x\nwant=% x", got, tc.want)
			}
			if first, last := got[0], got[len(got)-1]; first != last {
				t.Fatalf("tag mismatch: first=0x%02x, last=0x%02x", first, last)
			}
			if got, want := int(got[1]), len(got)-3; got != want {
				t.Fatalf("invalid length byte: got=%d, want=%d", got, want)
			}
		})
	}
}

func TestCommandInvalidArgs(t *testing.T) {
	for _, tc := range []struct {
		name string
		fct  func() (Command, error)
		want string
	}{
		{
			name: "burst-count-zero",
			fct:  func() (Command, error) { return CmdBurstCount(0) },
			want: "sciospec: invalid argument: burst count 0 out of range [1, 255]",
		},
		{
			name: "burst-count-too-large",
			fct:  func() (Command, error) { return CmdBurstCount(256) },
			want: "sciospec: invalid argument: burst count 256 out of range [1, 255]",
		},
		{
			name: "frame-rate",
			fct:  func() (Command, error) { return CmdFrameRate(0) },
			want: "sciospec: invalid argument: frame rate 0 must be positive",
		},
		{
			name: "freq-too-low",
			fct:  func() (Command, error) { return CmdExcitationFreqs(10, 1000, 1, LinearScale) },
			want: "sciospec: invalid argument: min frequency 10 Hz out of range",
		},
		{
			name: "freq-inverted",
			fct:  func() (Command, error) { return CmdExcitationFreqs(2000, 1000, 1, LinearScale) },
			want: "sciospec: invalid argument: max frequency 1000 Hz below min frequency 2000 Hz",
		},
		{
			name: "freq-count",
			fct:  func() (Command, error) { return CmdExcitationFreqs(1000, 2000, 129, LogScale) },
			want: "sciospec: invalid argument: frequency count 129 out of range [1, 128]",
		},
		{
			name: "amplitude",
			fct:  func() (Command, error) { return CmdAmplitude(0.02) },
			want: "sciospec: invalid argument: amplitude 0.02A out of range [1e-07, 0.01]",
		},
		{
			name: "gain",
			fct:  func() (Command, error) { return CmdGain(2) },
			want: "sciospec: invalid argument: unsupported gain 2",
		},
		{
			name: "adc-range",
			fct:  func() (Command, error) { return CmdADCRange(3) },
			want: "sciospec: invalid argument: unsupported ADC range 3",
		},
		{
			name: "output-config",
			fct:  func() (Command, error) { return CmdOutputConfig(0x04, true) },
			want: "sciospec: invalid argument: unknown output configuration option 0x04",
		},
		{
			name: "led",
			fct:  func() (Command, error) { return CmdLEDMode(5, LEDOn) },
			want: "sciospec: invalid argument: invalid LED 5",
		},
		{
			name: "led-mode",
			fct:  func() (Command, error) { return CmdLEDMode(1, LEDMode(3)) },
			want: "sciospec: invalid argument: invalid LED mode 3",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fct()
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("error should be an invalid argument error")
			}
		})
	}
}

func TestSetupOpcodeString(t *testing.T) {
	for _, tc := range []struct {
		op   SetupOpcode
		want string
	}{
		{OpBurstCount, "burst-count"},
		{OpADCRange, "adc-range"},
		{SetupOpcode(0x42), "SetupOpcode(0x42)"},
	} {
		if got := tc.op.String(); got != tc.want {
			t.Fatalf("invalid name: got=%q, want=%q", got, tc.want)
		}
	}
}
