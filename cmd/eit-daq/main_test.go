// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/eit/internal/xcnv"
	"github.com/go-lpc/eit/sciospec"
	"github.com/go-lpc/eit/sciospec/transport"
	"go-hep.org/x/hep/lcio"
)

var ack = []byte{0x18, 0x01, 0x83, 0x18}

// fakeDevice acknowledges every command and replies to a start command
// with a capture of nframes frames per requested burst.
type fakeDevice struct {
	nframes int
	bursts  int
	starts  int
	pending []byte
	closed  bool
}

func (dev *fakeDevice) Write(p []byte) (int, error) {
	switch {
	case len(p) == 6 && p[0] == 0xb0 && p[2] == byte(sciospec.OpBurstCount):
		dev.bursts = int(p[3])<<8 | int(p[4])
		dev.pending = append(dev.pending, ack...)
	case len(p) == 4 && p[0] == 0xb4 && p[2] == 0x01:
		dev.starts++
		dev.pending = append(dev.pending, ack...)
		for ib := 0; ib < dev.bursts; ib++ {
			for i := 0; i < dev.nframes; i++ {
				f := sciospec.Frame{
					ChannelGroup: 1,
					Excitation:   [2]uint8{uint8(i%16 + 1), uint8((i+1)%16 + 1)},
					Timestamp:    uint32(i),
				}
				for ch := range f.Channels {
					f.Channels[ch] = complex(float32(ch), float32(ib))
				}
				dev.pending = sciospec.AppendFrame(dev.pending, f)
			}
		}
	default:
		dev.pending = append(dev.pending, ack...)
	}
	return len(p), nil
}

func (dev *fakeDevice) Read(p []byte) (int, error) {
	n := copy(p, dev.pending)
	dev.pending = dev.pending[n:]
	return n, nil
}

func (dev *fakeDevice) Close() error {
	dev.closed = true
	return nil
}

func TestRun(t *testing.T) {
	tmp, err := os.MkdirTemp("", "eit-daq-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	setup := filepath.Join(tmp, "setup.json")
	err = os.WriteFile(setup, []byte(`{
	"port": "/dev/ttyFAKE0",
	"burst_count": 105,
	"n_el": 16,
	"channel_group": [1],
	"exc_freq": 10000,
	"framerate": 1,
	"amplitude": 0.001,
	"inj_skip": 0,
	"gain": 1,
	"adc_range": 1
}`), 0644)
	if err != nil {
		t.Fatalf("could not write setup file: %+v", err)
	}

	dev := &fakeDevice{nframes: 16}
	defer func(f func(string) (transport.Link, error)) {
		openLink = f
	}(openLink)
	var addr string
	openLink = func(name string) (transport.Link, error) {
		addr = name
		return dev, nil
	}

	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	err = run(context.Background(), job{
		setup: setup,
		run:   42,
		odir:  tmp,
		csv:   true,
	})
	if err != nil {
		t.Fatalf("could not run: %+v", err)
	}

	if got, want := addr, "/dev/ttyFAKE0"; got != want {
		t.Fatalf("invalid device address: got=%q, want=%q", got, want)
	}
	if !dev.closed {
		t.Fatalf("device link not closed")
	}
	// 105 bursts are measured as 100+5.
	if got, want := dev.starts, 2; got != want {
		t.Fatalf("invalid number of measurements: got=%d, want=%d", got, want)
	}

	r, err := lcio.Open(filepath.Join(tmp, "eit_042.slcio"))
	if err != nil {
		t.Fatalf("could not open LCIO file: %+v", err)
	}
	defer r.Close()

	bursts, err := xcnv.LCIO2Bursts(r, 10, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("could not read LCIO file: %+v", err)
	}
	if got, want := len(bursts), 105; got != want {
		t.Fatalf("invalid number of bursts: got=%d, want=%d", got, want)
	}
	for i, burst := range bursts {
		if got, want := len(burst), 16; got != want {
			t.Fatalf("burst %d: invalid number of frames: got=%d, want=%d", i, got, want)
		}
	}

	raw, err := os.ReadFile(filepath.Join(tmp, "eit_042.csv"))
	if err != nil {
		t.Fatalf("could not read CSV file: %+v", err)
	}
	lines := bytes.Count(raw, []byte("\n"))
	if got, want := lines, 1+105*16*16; got != want {
		t.Fatalf("invalid number of CSV lines: got=%d, want=%d", got, want)
	}
}

func TestRunErrors(t *testing.T) {
	defer func(f func(string) (transport.Link, error)) {
		openLink = f
	}(openLink)
	openLink = func(name string) (transport.Link, error) {
		return nil, io.ErrUnexpectedEOF
	}

	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	for _, tc := range []struct {
		name string
		job  job
		want string
	}{
		{
			name: "no-addr",
			job:  job{},
			want: "no device address",
		},
		{
			name: "no-setup",
			job:  job{setup: "/dev/null/setup.json"},
			want: "could not load setup",
		},
		{
			name: "open",
			job:  job{addr: "/dev/ttyFAKE1"},
			want: `could not open device "/dev/ttyFAKE1": unexpected EOF`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := run(context.Background(), tc.job)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; !strings.HasPrefix(got, want) {
				t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
			}
		})
	}
}
