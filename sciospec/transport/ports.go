// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port available on the host.
type PortInfo struct {
	Name    string
	USB     bool
	VID     string
	PID     string
	Serial  string
	Product string
}

func (p PortInfo) String() string {
	if !p.USB {
		return p.Name
	}
	return fmt.Sprintf("%s (usb=%s:%s, serial=%q, product=%q)", p.Name, p.VID, p.PID, p.Serial, p.Product)
}

// IsFTDI reports whether the port is exposed by an FTDI bridge.
func (p PortInfo) IsFTDI() bool {
	return p.USB && strings.EqualFold(p.VID, "0403")
}

var (
	portsList = enumerator.GetDetailedPortsList
)

// Ports lists the serial ports available on the host, sorted by name.
func Ports() ([]PortInfo, error) {
	details, err := portsList()
	if err != nil {
		return nil, fmt.Errorf("transport: could not list serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, PortInfo{
			Name:    d.Name,
			USB:     d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })

	return ports, nil
}
