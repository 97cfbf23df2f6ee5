// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eit-dump decodes and displays EIT bursts from raw ScioSpec captures.
//
// Usage: eit-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> eit-dump -bursts=2 -nel=16 ./capture.raw
//	=== burst 0 ===
//	frame 0: grp=1 exc=[ 1  2] row=0x0001 ts=0
//	  ch=01 el=  1 re=+1.000000e-03 im=-2.500000e-04
//	  ch=02 el=  2 re=+9.000000e-04 im=-2.000000e-04
//	[...]
//
//	$> eit-dump -hex -setup=./setup.json -stats ./capture.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-lpc/eit/internal/stats"
	"github.com/go-lpc/eit/sciospec"
)

const usage = `eit-dump decodes and displays EIT bursts from raw ScioSpec captures.

Usage: eit-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> eit-dump -bursts=2 -nel=16 ./capture.raw
 === burst 0 ===
 frame 0: grp=1 exc=[ 1  2] row=0x0001 ts=0
   ch=01 el=  1 re=+1.000000e-03 im=-2.500000e-04
   ch=02 el=  2 re=+9.000000e-04 im=-2.000000e-04
 [...]

 $> eit-dump -hex -setup=./setup.json -stats ./capture.txt

Options:
`

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("eit-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("eit-dump", flag.ExitOnError)

		setup  = fset.String("setup", "", "path to a JSON measurement setup")
		nbrsts = fset.Int("bursts", 1, "number of bursts in the capture")
		nel    = fset.Int("nel", 16, "number of electrodes")
		grps   = fset.String("groups", "1", "comma-separated list of channel groups to display")
		isHex  = fset.Bool("hex", false, "capture is stored as hex tokens")
		doStat = fset.Bool("stats", false, "display per-electrode statistics instead of frames")
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
		log.Fatalf("missing path to input capture file")
	}

	cfg := sciospec.Config{
		BurstCount: *nbrsts,
		NEl:        *nel,
	}
	cfg.ChannelGroups, err = parseGroups(*grps)
	if err != nil {
		log.Fatalf("could not parse channel groups: %+v", err)
	}

	if *setup != "" {
		s, err := sciospec.LoadSetup(*setup)
		if err != nil {
			log.Fatalf("could not load setup: %+v", err)
		}
		cfg = s.Config
	}

	for _, fname := range fset.Args() {
		err := process(w, fname, cfg, *isHex, *doStat)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func parseGroups(s string) ([]int, error) {
	var grps []int
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		grp, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid channel group %q: %w", v, err)
		}
		grps = append(grps, grp)
	}
	return grps, nil
}

// tokenCleaner turns list-like dumps ("['0xb4', '0x1', ...]") into
// whitespace separated tokens.
var tokenCleaner = strings.NewReplacer(",", " ", "[", " ", "]", " ", "'", " ", `"`, " ")

func process(w io.Writer, fname string, cfg sciospec.Config, isHex, doStat bool) error {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("could not read capture file: %w", err)
	}

	var bursts [][]sciospec.Frame
	switch {
	case isHex:
		toks := strings.Fields(tokenCleaner.Replace(string(raw)))
		bursts, err = sciospec.ReassembleTokens(toks, cfg)
	default:
		bursts, err = sciospec.Reassemble(raw, cfg)
	}
	if err != nil {
		return fmt.Errorf("could not decode capture: %w", err)
	}

	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	if doStat {
		fmt.Fprintf(wbuf, "src sink  el     n      mean|V|       std|V|    mean(phi)     std(phi)\n")
		for _, sum := range stats.Summarize(bursts) {
			fmt.Fprintf(wbuf, "%3d %4d %3d %5d %+e %+e %+e %+e\n",
				sum.Src, sum.Sink, sum.Electrode, sum.N,
				sum.MeanAbs, sum.StdAbs, sum.MeanPhase, sum.StdPhase,
			)
		}
		return wbuf.Flush()
	}

	for ib, burst := range bursts {
		fmt.Fprintf(wbuf, "=== burst %d ===\n", ib)
		for i := range burst {
			f := &burst[i]
			fmt.Fprintf(wbuf, "frame %d: grp=%d exc=[%2d %2d] row=0x%02x%02x ts=%d\n",
				i, f.ChannelGroup, f.Excitation[0], f.Excitation[1],
				f.FrequencyRow[0], f.FrequencyRow[1], f.Timestamp,
			)
			for ch, v := range f.Channels {
				fmt.Fprintf(wbuf, "  ch=%02d el=%3d re=%+e im=%+e\n",
					ch+1, f.Electrode(ch+1), real(v), imag(v),
				)
			}
		}
	}

	return wbuf.Flush()
}
