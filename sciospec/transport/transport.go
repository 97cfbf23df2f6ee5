// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport provides the byte links to ScioSpec devices:
// plain serial (COM) ports and FTDI USB-HS bridges.
package transport // import "github.com/go-lpc/eit/sciospec/transport"

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-lpc/eit/sciospec"
)

// Link is an open transport to a device.
type Link interface {
	sciospec.Transport
	io.Closer
}

var (
	_ Link = (*Serial)(nil)
	_ Link = (*FTDI)(nil)
)

// Open opens the link described by addr:
//
//	/dev/ttyUSB0                   serial port, default settings
//	serial:///dev/ttyUSB0?baud=9600&timeout=1s
//	ftdi://0403:6014?baud=9000&latency=2
func Open(addr string) (Link, error) {
	if !strings.Contains(addr, "://") {
		s, err := OpenSerial(SerialConfig{Port: addr})
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	if rest, ok := strings.CutPrefix(addr, "ftdi://"); ok {
		return openFTDIAddr(rest)
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("transport: could not parse address %q: %w", addr, err)
	}
	q := u.Query()

	if u.Scheme != "serial" {
		return nil, fmt.Errorf("transport: unknown transport scheme %q", u.Scheme)
	}

	cfg := DefaultSerialConfig()
	cfg.Port = u.Host + u.Path
	if v := q.Get("baud"); v != "" {
		cfg.Baud, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid baud rate %q: %w", v, err)
		}
	}
	if v := q.Get("timeout"); v != "" {
		cfg.ReadTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid read timeout %q: %w", v, err)
		}
	}
	s, err := OpenSerial(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openFTDIAddr(addr string) (Link, error) {
	var (
		err           error
		cfg           = DefaultFTDIConfig()
		host, args, _ = strings.Cut(addr, "?")
	)
	if host != "" {
		cfg.VID, cfg.PID, err = parseUSBID(host)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid USB id %q: %w", host, err)
		}
	}

	q, err := url.ParseQuery(args)
	if err != nil {
		return nil, fmt.Errorf("transport: could not parse FTDI options %q: %w", args, err)
	}
	if v := q.Get("baud"); v != "" {
		cfg.Baud, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid baud rate %q: %w", v, err)
		}
	}
	if v := q.Get("latency"); v != "" {
		cfg.Latency, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("transport: invalid latency timer %q: %w", v, err)
		}
	}
	ft, err := OpenFTDI(cfg)
	if err != nil {
		return nil, err
	}
	return ft, nil
}

func parseUSBID(v string) (vid, pid uint16, err error) {
	toks := strings.Split(v, ":")
	if len(toks) != 2 {
		return 0, 0, fmt.Errorf("transport: expected vid:pid")
	}
	vv, err := strconv.ParseUint(strings.TrimPrefix(toks[0], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("transport: invalid vendor id: %w", err)
	}
	pv, err := strconv.ParseUint(strings.TrimPrefix(toks[1], "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("transport: invalid product id: %w", err)
	}
	return uint16(vv), uint16(pv), nil
}
