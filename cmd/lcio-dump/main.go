// Copyright 2021 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lcio-dump decodes and displays EIT bursts embedded in LCIO files.
//
// Usage: lcio-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> lcio-dump ./eit_042.slcio
//	=== run 42 (EIT-ScioSpec) ===
//	setup: n_el=16 bursts=5 freq=10000Hz fps=1 amp=0.01A
//	=== burst 0 ===
//	frame 0: grp=1 exc=[ 1  2] row=0x0001 ts=0
//	  (+1.021e-03-2.500e-04i) (+9.870e-04-2.130e-04i) [...]
//	[...]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/eit/internal/xcnv"
	"go-hep.org/x/hep/lcio"
)

const usage = `lcio-dump decodes and displays EIT bursts embedded in LCIO files.

Usage: lcio-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> lcio-dump ./eit_042.slcio
 === run 42 (EIT-ScioSpec) ===
 setup: n_el=16 bursts=5 freq=10000Hz fps=1 amp=0.01A
 === burst 0 ===
 frame 0: grp=1 exc=[ 1  2] row=0x0001 ts=0
   (+1.021e-03-2.500e-04i) (+9.870e-04-2.130e-04i) [...]
 [...]

`

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("lcio-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("lcio", flag.ExitOnError)

		hdr = fset.Bool("header", false, "only display the run header")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input LCIO file")
	}

	for _, fname := range fset.Args() {
		err := process(w, fname, *hdr)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, hdrOnly bool) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	r, err := lcio.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open LCIO file: %w", err)
	}
	defer r.Close()

	msg := log.New(io.Discard, "", 0)
	bursts, err := xcnv.LCIO2Bursts(r, 100, msg)
	if err != nil {
		return fmt.Errorf("could not decode bursts: %w", err)
	}

	rhdr := r.RunHeader()
	fmt.Fprintf(wbuf, "=== run %d (%s) ===\n", rhdr.RunNumber, rhdr.Detector)
	fmt.Fprintf(wbuf, "setup: n_el=%v bursts=%v freq=%vHz fps=%v amp=%vA\n",
		param(rhdr.Params.Ints["NEl"]),
		param(rhdr.Params.Ints["BurstCount"]),
		param(rhdr.Params.Floats["ExcFreq"]),
		param(rhdr.Params.Floats["FrameRate"]),
		param(rhdr.Params.Floats["Amplitude"]),
	)
	if hdrOnly {
		fmt.Fprintf(wbuf, "bursts: %d\n", len(bursts))
		return wbuf.Flush()
	}

	for ib, burst := range bursts {
		fmt.Fprintf(wbuf, "=== burst %d ===\n", ib)
		for i, f := range burst {
			fmt.Fprintf(wbuf, "frame %d: grp=%d exc=[%2d %2d] row=0x%02x%02x ts=%d\n",
				i, f.ChannelGroup, f.Excitation[0], f.Excitation[1],
				f.FrequencyRow[0], f.FrequencyRow[1], f.Timestamp,
			)
			for ch := 0; ch < len(f.Channels); ch += 4 {
				c := f.Channels[ch : ch+4]
				fmt.Fprintf(wbuf, "  %+.3e %+.3e %+.3e %+.3e\n", c[0], c[1], c[2], c[3])
			}
		}
	}

	return wbuf.Flush()
}

func param[T any](vs []T) interface{} {
	if len(vs) == 0 {
		return "n/a"
	}
	return vs[0]
}
