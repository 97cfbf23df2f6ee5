// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"encoding/binary"
	"fmt"
)

// command tags
const (
	tagSaveSettings = 0x90
	tagSoftReset    = 0xa1
	tagSetSetup     = 0xb0
	tagGetSetup     = 0xb1
	tagOutputCfg    = 0xb2
	tagStartStop    = 0xb4
	tagLED          = 0xc8
	tagPowerPlug    = 0xcc
	tagDeviceInfo   = 0xd1
	tagFirmwareIDs  = 0xd2
)

// Setup opcodes shared by the set (0xb0) and get (0xb1) commands.
type SetupOpcode uint8

const (
	OpResetSetup     SetupOpcode = 0x01
	OpBurstCount     SetupOpcode = 0x02
	OpFrameRate      SetupOpcode = 0x03
	OpExcitationFreq SetupOpcode = 0x04
	OpAmplitude      SetupOpcode = 0x05
	OpInjection      SetupOpcode = 0x06
	OpMeasureMode    SetupOpcode = 0x08
	OpGain           SetupOpcode = 0x09
	OpSwitchType     SetupOpcode = 0x0c
	OpADCRange       SetupOpcode = 0x0d
)

func (op SetupOpcode) String() string {
	switch op {
	case OpResetSetup:
		return "reset-setup"
	case OpBurstCount:
		return "burst-count"
	case OpFrameRate:
		return "frame-rate"
	case OpExcitationFreq:
		return "excitation-frequencies"
	case OpAmplitude:
		return "excitation-amplitude"
	case OpInjection:
		return "excitation-sequence"
	case OpMeasureMode:
		return "measure-mode"
	case OpGain:
		return "gain"
	case OpSwitchType:
		return "excitation-switch-type"
	case OpADCRange:
		return "adc-range"
	}
	return fmt.Sprintf("SetupOpcode(0x%02x)", uint8(op))
}

// Output configuration options (tag 0xb2).
const (
	OutExcitation   = 0x01 // excitation setting (2 bytes in the data stream)
	OutFrequencyRow = 0x02 // current row in the frequency stack (2 bytes)
	OutTimestamp    = 0x03 // timestamp (4 bytes)
)

// FreqScale is the distribution of the frequencies of an excitation block.
type FreqScale uint8

const (
	LinearScale FreqScale = 0
	LogScale    FreqScale = 1
)

// LEDMode is the state of a front panel LED.
type LEDMode uint8

const (
	LEDOff   LEDMode = 0
	LEDOn    LEDMode = 1
	LEDBlink LEDMode = 2
)

// Command is a device command frame:
//
//	[tag][length][data...][tag]
//
// where length is len(data). For opcode commands, data holds the opcode
// followed by its payload.
type Command struct {
	Tag  byte
	Data []byte
}

func newCommand(tag byte, op byte, payload ...byte) Command {
	data := make([]byte, 0, 1+len(payload))
	data = append(data, op)
	data = append(data, payload...)
	return Command{Tag: tag, Data: data}
}

// Bytes returns the wire representation of the command.
func (cmd Command) Bytes() []byte {
	p := make([]byte, 0, len(cmd.Data)+3)
	p = append(p, cmd.Tag, byte(len(cmd.Data)))
	p = append(p, cmd.Data...)
	p = append(p, cmd.Tag)
	return p
}

func (cmd Command) String() string {
	return fmt.Sprintf("% x", cmd.Bytes())
}

func CmdSaveSettings() Command  { return Command{Tag: tagSaveSettings} }
func CmdSoftwareReset() Command { return Command{Tag: tagSoftReset} }
func CmdDeviceInfo() Command    { return Command{Tag: tagDeviceInfo} }
func CmdFirmwareIDs() Command   { return Command{Tag: tagFirmwareIDs} }

func CmdPowerPlugDetect() Command { return newCommand(tagPowerPlug, 0x81) }

func CmdStart() Command { return newCommand(tagStartStop, 0x01) }
func CmdStop() Command  { return newCommand(tagStartStop, 0x00) }

// CmdResetSetup resets the measurement setup of the device.
func CmdResetSetup() Command { return newCommand(tagSetSetup, byte(OpResetSetup)) }

// CmdBurstCount sets the number of bursts generated before the measurement
// stops automatically.
// Counts above MaxBurstCount must be split with BurstPlan first.
func CmdBurstCount(n int) (Command, error) {
	if n < 1 || n > MaxBurstCount {
		return Command{}, invalidArg("burst count %d out of range [1, %d]", n, MaxBurstCount)
	}
	var p [2]byte
	binary.BigEndian.PutUint16(p[:], uint16(n))
	return newCommand(tagSetSetup, byte(OpBurstCount), p[:]...), nil
}

// CmdFrameRate sets the number of EIT frames per second.
func CmdFrameRate(fps float32) (Command, error) {
	if !(fps > 0) {
		return Command{}, invalidArg("frame rate %v must be positive", fps)
	}
	return newCommand(tagSetSetup, byte(OpFrameRate), PutFloat32(nil, fps)...), nil
}

// CmdExcitationFreqs adds an excitation frequency block.
// Frequencies are in Hz, within [100 Hz, 10 MHz]; count is within [1, 128].
func CmdExcitationFreqs(fmin, fmax float32, count uint16, scale FreqScale) (Command, error) {
	const (
		lo = 100
		hi = 10e6
	)
	switch {
	case fmin < lo || fmin > hi:
		return Command{}, invalidArg("min frequency %v Hz out of range", fmin)
	case fmax < lo || fmax > hi:
		return Command{}, invalidArg("max frequency %v Hz out of range", fmax)
	case fmax < fmin:
		return Command{}, invalidArg("max frequency %v Hz below min frequency %v Hz", fmax, fmin)
	case count < 1 || count > 128:
		return Command{}, invalidArg("frequency count %d out of range [1, 128]", count)
	case scale != LinearScale && scale != LogScale:
		return Command{}, invalidArg("invalid frequency scale %d", scale)
	}
	p := make([]byte, 0, 11)
	p = PutFloat32(p, fmin)
	p = PutFloat32(p, fmax)
	p = append(p, byte(count>>8), byte(count))
	p = append(p, byte(scale))
	return newCommand(tagSetSetup, byte(OpExcitationFreq), p...), nil
}

// CmdAmplitude sets the excitation amplitude, in ampere.
func CmdAmplitude(amp float64) (Command, error) {
	if amp < MinAmplitude || amp > MaxAmplitude {
		return Command{}, invalidArg("amplitude %vA out of range [%v, %v]", amp, MinAmplitude, MaxAmplitude)
	}
	return newCommand(tagSetSetup, byte(OpAmplitude), PutFloat64(nil, amp)...), nil
}

// CmdInjection adds the (source, sink) electrode pair to the excitation
// sequence.
func CmdInjection(src, sink uint8) Command {
	return newCommand(tagSetSetup, byte(OpInjection), src, sink)
}

// CmdMeasureMode selects the measure mode (1: single-ended) and boundary.
func CmdMeasureMode(mode, boundary uint8) Command {
	return newCommand(tagSetSetup, byte(OpMeasureMode), mode, boundary)
}

// CmdSwitchType sets the excitation switch type.
func CmdSwitchType(typ uint8) Command {
	return newCommand(tagSetSetup, byte(OpSwitchType), typ)
}

// CmdGain sets the amplifier gain: 1, 10, 100 or 1000.
func CmdGain(gain int) (Command, error) {
	var v byte
	switch gain {
	case 1:
		v = 0x00
	case 10:
		v = 0x01
	case 100:
		v = 0x02
	case 1000:
		v = 0x03
	default:
		return Command{}, invalidArg("unsupported gain %d", gain)
	}
	return newCommand(tagSetSetup, byte(OpGain), 0x01, v), nil
}

// CmdADCRange sets the ADC range: +/-1, +/-5 or +/-10 V.
func CmdADCRange(rng int) (Command, error) {
	var v byte
	switch rng {
	case 1:
		v = 0x01
	case 5:
		v = 0x02
	case 10:
		v = 0x03
	default:
		return Command{}, invalidArg("unsupported ADC range %d", rng)
	}
	return newCommand(tagSetSetup, byte(OpADCRange), v), nil
}

// CmdGetSetup queries one entry of the measurement setup.
func CmdGetSetup(op SetupOpcode) Command {
	return newCommand(tagGetSetup, byte(op))
}

// CmdOutputConfig enables or disables an additional field of the
// measured data stream. It is only valid while no measurement is running.
func CmdOutputConfig(opt uint8, enable bool) (Command, error) {
	switch opt {
	case OutExcitation, OutFrequencyRow, OutTimestamp:
	default:
		return Command{}, invalidArg("unknown output configuration option 0x%02x", opt)
	}
	return newCommand(tagOutputCfg, opt, b2u8(enable)), nil
}

// CmdLEDAutoMode enables or disables the automatic mode of a LED (1-4).
func CmdLEDAutoMode(led int, enable bool) (Command, error) {
	if led < 1 || led > 4 {
		return Command{}, invalidArg("invalid LED %d", led)
	}
	return newCommand(tagLED, 0x01, byte(led), b2u8(enable)), nil
}

// CmdLEDMode switches a LED (1-4) off, on or to blinking.
func CmdLEDMode(led int, mode LEDMode) (Command, error) {
	if led < 1 || led > 4 {
		return Command{}, invalidArg("invalid LED %d", led)
	}
	switch mode {
	case LEDOff, LEDOn, LEDBlink:
	default:
		return Command{}, invalidArg("invalid LED mode %d", mode)
	}
	return newCommand(tagLED, 0x02, byte(led), byte(mode)), nil
}

func b2u8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
