// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eit-ports lists the serial ports a ScioSpec EIT device may be attached to.
//
// Usage: eit-ports [OPTIONS]
//
// Example:
//
//	$> eit-ports
//	/dev/ttyS0
//	/dev/ttyUSB0 (usb=0403:6014, serial="FT4ZX1", product="FT232H") [ftdi]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/eit/sciospec/transport"
)

const usage = `eit-ports lists the serial ports a ScioSpec EIT device may be attached to.

Usage: eit-ports [OPTIONS]

Example:

 $> eit-ports
 /dev/ttyS0
 /dev/ttyUSB0 (usb=0403:6014, serial="FT4ZX1", product="FT232H") [ftdi]

Options:
`

var listPorts = transport.Ports

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("eit-ports: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("eit-ports", flag.ExitOnError)

		usb  = fset.Bool("usb", false, "only list USB ports")
		ftdi = fset.Bool("ftdi", false, "only list ports exposed by an FTDI bridge")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	err = process(w, *usb, *ftdi)
	if err != nil {
		log.Fatalf("could not list ports: %+v", err)
	}
}

func process(w io.Writer, usb, ftdi bool) error {
	ports, err := listPorts()
	if err != nil {
		return err
	}

	n := 0
	for _, p := range ports {
		switch {
		case usb && !p.USB:
			continue
		case ftdi && !p.IsFTDI():
			continue
		}
		n++
		if p.IsFTDI() {
			fmt.Fprintf(w, "%v [ftdi]\n", p)
			continue
		}
		fmt.Fprintf(w, "%v\n", p)
	}

	if n == 0 {
		log.Printf("no serial port found")
	}
	return nil
}
