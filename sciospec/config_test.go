// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sciospec

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "valid",
			cfg:  Config{BurstCount: 1, NEl: 32, ChannelGroups: []int{1, 2}},
		},
		{
			name: "electrodes",
			cfg:  Config{BurstCount: 1, NEl: 20, ChannelGroups: []int{1}},
			want: "sciospec: invalid argument: invalid number of electrodes 20",
		},
		{
			name: "bursts",
			cfg:  Config{BurstCount: 0, NEl: 16, ChannelGroups: []int{1}},
			want: "sciospec: invalid argument: burst count 0 must be strictly positive",
		},
		{
			name: "no-group",
			cfg:  Config{BurstCount: 1, NEl: 16},
			want: "sciospec: invalid argument: no channel group selected",
		},
		{
			name: "group-range",
			cfg:  Config{BurstCount: 1, NEl: 48, ChannelGroups: []int{4}},
			want: "sciospec: invalid argument: channel group 4 out of range [1, 3] for 48 electrodes",
		},
		{
			name: "group-dup",
			cfg:  Config{BurstCount: 1, NEl: 64, ChannelGroups: []int{1, 3, 1}},
			want: "sciospec: invalid argument: duplicate channel group 1",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			switch {
			case err == nil && tc.want == "":
				return
			case err == nil:
				t.Fatalf("expected an error")
			case tc.want == "":
				t.Fatalf("could not validate: %+v", err)
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

func TestSetupInjections(t *testing.T) {
	setup := DefaultSetup()
	setup.NEl = 16
	setup.InjSkip = 0
	got := setup.Injections()
	if len(got) != 16 {
		t.Fatalf("invalid number of injections: %d", len(got))
	}
	if got[0] != [2]uint8{1, 2} || got[15] != [2]uint8{16, 1} {
		t.Fatalf("invalid adjacent injections: %v", got)
	}

	setup.NEl = 32
	setup.InjSkip = 16
	got = setup.Injections()
	for i, pair := range got {
		if int(pair[0]) != i+1 {
			t.Fatalf("invalid source %d: %v", i, pair)
		}
		want := (i+17)%32 + 1
		if int(pair[1]) != want {
			t.Fatalf("invalid sink for source %d: got=%d, want=%d", pair[0], pair[1], want)
		}
		if pair[0] == pair[1] {
			t.Fatalf("source and sink are identical: %v", pair)
		}
	}
	if got[0] != [2]uint8{1, 18} {
		t.Fatalf("invalid first injection: %v", got[0])
	}
}

func TestReadSetup(t *testing.T) {
	const js = `{
	"burst_count": 520,
	"n_el": 32,
	"channel_group": [1, 2],
	"object": "circle",
	"material": "PLA",
	"exc_freq": 125000,
	"framerate": 5,
	"amplitude": 0.005,
	"inj_skip": 16,
	"gain": 10,
	"adc_range": 5
}`
	got, err := ReadSetup(strings.NewReader(js))
	if err != nil {
		t.Fatalf("could not read setup: %+v", err)
	}

	want := Setup{
		Config: Config{
			BurstCount:    520,
			NEl:           32,
			ChannelGroups: []int{1, 2},
			Object:        "circle",
			Material:      "PLA",
		},
		ExcFreq:   125e3,
		FrameRate: 5,
		Amplitude: 0.005,
		InjSkip:   16,
		Gain:      10,
		ADCRange:  5,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid setup:\ngot= %+v\nwant=%+v", got, want)
	}

	tmp, err := os.MkdirTemp("", "eit-sciospec-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fname := filepath.Join(tmp, "setup.json")
	err = os.WriteFile(fname, []byte(js), 0644)
	if err != nil {
		t.Fatalf("could not write setup file: %+v", err)
	}

	loaded, err := LoadSetup(fname)
	if err != nil {
		t.Fatalf("could not load setup: %+v", err)
	}
	if !reflect.DeepEqual(loaded, want) {
		t.Fatalf("invalid loaded setup:\ngot= %+v\nwant=%+v", loaded, want)
	}
}

func TestReadSetupInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		js   string
		want error
	}{
		{
			name: "unknown-field",
			js:   `{"n_elec": 16}`,
		},
		{
			name: "invalid-gain",
			js:   `{"gain": 3}`,
			want: ErrInvalidArgument,
		},
		{
			name: "invalid-skip",
			js:   `{"inj_skip": 15}`,
			want: ErrInvalidArgument,
		},
		{
			name: "invalid-freq",
			js:   `{"exc_freq": 20e6}`,
			want: ErrInvalidArgument,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSetup(strings.NewReader(tc.js))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("invalid error: %+v", err)
			}
		})
	}

	_, err := LoadSetup("/dev/null/not-there.json")
	if err == nil {
		t.Fatalf("expected an error")
	}
}
