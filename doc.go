// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eit holds code to drive ScioSpec electrical impedance tomography
// (EIT) devices and store their measurements.
//
// The device protocol lives in package sciospec: command encoding, response
// draining, burst planning and the reassembly of the 140-byte measurement
// frames into bursts. Serial and FTDI links are provided by
// sciospec/transport. Measurements are recorded in MySQL via package eitdb.
//
// The commands under cmd/ build on these packages:
//
//   - eit-daq runs a measurement and writes LCIO, CSV and database records,
//   - eit-tdaq exposes the device as a TDAQ process,
//   - eit-shell is an interactive device console,
//   - eit-dump, lcio-dump and eit-sql inspect recorded data,
//   - eit-ports lists the available serial ports.
package eit // import "github.com/go-lpc/eit"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of eit and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/go-lpc/eit"
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil {
			switch {
			case m.Replace.Version != "" && m.Replace.Path != "":
				return fmt.Sprintf("%s %s", m.Replace.Path, m.Replace.Version), m.Replace.Sum
			case m.Replace.Version != "":
				return m.Replace.Version, m.Replace.Sum
			case m.Replace.Path != "":
				return m.Replace.Path, m.Replace.Sum
			default:
				return m.Version + "*", ""
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
