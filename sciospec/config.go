// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"
)

// Config describes a measurement capture.
type Config struct {
	Port          string `json:"port,omitempty"`
	BurstCount    int    `json:"burst_count"`   // total number of requested bursts
	NEl           int    `json:"n_el"`          // number of electrodes: 16, 32, 48 or 64
	ChannelGroups []int  `json:"channel_group"` // channel groups to keep

	// descriptive fields, not interpreted.
	Sample   int     `json:"actual_sample,omitempty"`
	Object   string  `json:"object,omitempty"`
	Size     float64 `json:"size,omitempty"`
	Material string  `json:"material,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Validate checks the consistency of the capture configuration.
func (cfg Config) Validate() error {
	switch cfg.NEl {
	case 16, 32, 48, 64:
	default:
		return invalidArg("invalid number of electrodes %d", cfg.NEl)
	}
	if cfg.BurstCount < 1 {
		return invalidArg("burst count %d must be strictly positive", cfg.BurstCount)
	}
	if len(cfg.ChannelGroups) == 0 {
		return invalidArg("no channel group selected")
	}
	var (
		ngrps = cfg.NEl / NumChans
		seen  = make(map[int]bool, len(cfg.ChannelGroups))
	)
	for _, grp := range cfg.ChannelGroups {
		if grp < 1 || grp > ngrps {
			return invalidArg("channel group %d out of range [1, %d] for %d electrodes", grp, ngrps, cfg.NEl)
		}
		if seen[grp] {
			return invalidArg("duplicate channel group %d", grp)
		}
		seen[grp] = true
	}
	return nil
}

// HasGroup reports whether the channel group grp is selected.
func (cfg Config) HasGroup(grp int) bool {
	for _, v := range cfg.ChannelGroups {
		if v == grp {
			return true
		}
	}
	return false
}

// Setup is the full measurement setup programmed into the device.
type Setup struct {
	Config

	ExcFreq   float32 `json:"exc_freq"`  // excitation frequency, in Hz
	FrameRate float32 `json:"framerate"` // frames per second
	Amplitude float64 `json:"amplitude"` // excitation amplitude, in A
	InjSkip   int     `json:"inj_skip"`  // electrodes skipped between source and sink
	Gain      int     `json:"gain"`      // 1, 10, 100 or 1000
	ADCRange  int     `json:"adc_range"` // 1, 5 or 10 V
}

// DefaultSetup returns a 16 electrodes, single burst, adjacent injection setup.
func DefaultSetup() Setup {
	return Setup{
		Config: Config{
			BurstCount:    1,
			NEl:           16,
			ChannelGroups: []int{1},
		},
		ExcFreq:   10e3,
		FrameRate: 1,
		Amplitude: MaxAmplitude,
		InjSkip:   0,
		Gain:      1,
		ADCRange:  1,
	}
}

// Validate checks the consistency of the measurement setup.
func (setup Setup) Validate() error {
	err := setup.Config.Validate()
	if err != nil {
		return err
	}
	if setup.InjSkip < 0 || setup.InjSkip >= setup.NEl-1 {
		return invalidArg("injection skip %d out of range [0, %d]", setup.InjSkip, setup.NEl-2)
	}
	if !(setup.Amplitude > 0) {
		return invalidArg("amplitude %vA must be positive", setup.Amplitude)
	}
	if _, err := CmdAmplitude(math.Min(setup.Amplitude, MaxAmplitude)); err != nil {
		return err
	}
	if _, err := CmdFrameRate(setup.FrameRate); err != nil {
		return err
	}
	if _, err := CmdExcitationFreqs(setup.ExcFreq, setup.ExcFreq, 1, LinearScale); err != nil {
		return err
	}
	if _, err := CmdGain(setup.Gain); err != nil {
		return err
	}
	if _, err := CmdADCRange(setup.ADCRange); err != nil {
		return err
	}
	return nil
}

// Injections returns the (source, sink) electrode pairs of the excitation
// sequence: each electrode in turn injects, and the sink is found
// InjSkip+1 electrodes further, wrapping around.
func (setup Setup) Injections() [][2]uint8 {
	pairs := make([][2]uint8, setup.NEl)
	for i := range pairs {
		sink := (i+setup.InjSkip+1)%setup.NEl + 1
		pairs[i] = [2]uint8{uint8(i + 1), uint8(sink)}
	}
	return pairs
}

// LoadSetup reads a JSON measurement setup, on top of DefaultSetup.
func LoadSetup(fname string) (Setup, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Setup{}, fmt.Errorf("sciospec: could not open setup file %q: %w", fname, err)
	}
	defer f.Close()

	return ReadSetup(f)
}

// ReadSetup decodes a JSON measurement setup, on top of DefaultSetup.
func ReadSetup(r io.Reader) (Setup, error) {
	setup := DefaultSetup()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(&setup)
	if err != nil {
		return setup, fmt.Errorf("sciospec: could not decode setup: %w", err)
	}
	err = setup.Validate()
	if err != nil {
		return setup, fmt.Errorf("sciospec: invalid setup: %w", err)
	}
	return setup, nil
}

// Option configures a Device.
type Option func(*options)

type options struct {
	msg    *log.Logger
	idle   time.Duration
	bursts []int
	rbuf   int
}

func newOptions() options {
	return options{
		msg:    log.New(os.Stdout, "sciospec: ", 0),
		bursts: DefaultBursts,
		rbuf:   1024,
	}
}

// WithLogger sets the logger used to report system messages.
func WithLogger(msg *log.Logger) Option {
	return func(o *options) {
		o.msg = msg
	}
}

// WithIdleTimeout sets the quiet period after which a response is
// considered complete.
// A zero duration stops draining at the first empty read.
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) {
		o.idle = d
	}
}

// WithSupportedBursts sets the burst counts directly supported by the
// device.
func WithSupportedBursts(bursts ...int) Option {
	return func(o *options) {
		o.bursts = append([]int(nil), bursts...)
	}
}

// WithReadBufferSize sets the size of a single transport read.
func WithReadBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rbuf = n
		}
	}
}
