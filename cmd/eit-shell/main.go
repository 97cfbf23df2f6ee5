// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eit-shell is an interactive shell to drive a ScioSpec EIT device.
//
// Usage: eit-shell [OPTIONS] ADDR
//
// Example:
//
//	$> eit-shell /dev/ttyUSB0
//	eit> burst 5
//	status: Command-Acknowledge: Command has been executed successfully (0x83)
//	eit> quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-lpc/eit/sciospec"
	"github.com/go-lpc/eit/sciospec/transport"
	"github.com/peterh/liner"
)

const usage = `eit-shell is an interactive shell to drive a ScioSpec EIT device.

Usage: eit-shell [OPTIONS] ADDR

ADDR is a serial port path, a serial://PORT?baud=BAUD URL or a
ftdi://VID:PID URL.

Example:

 $> eit-shell /dev/ttyUSB0
 eit> info
 eit> burst 5
 eit> quit

Options:
`

var openLink = transport.Open

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("eit-shell: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("eit-shell", flag.ExitOnError)

		idle = fset.Duration("idle", 100*time.Millisecond, "quiet period ending a device response")
		hist = fset.String("hist", filepath.Join(os.TempDir(), ".eit-shell.history"), "path to history file")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() != 1 {
		fset.Usage()
		log.Fatalf("missing device address")
	}

	link, err := openLink(fset.Arg(0))
	if err != nil {
		log.Fatalf("could not open device %q: %+v", fset.Arg(0), err)
	}
	defer link.Close()

	dev := sciospec.New(
		link,
		sciospec.WithLogger(log.New(w, "sciospec: ", 0)),
		sciospec.WithIdleTimeout(*idle),
	)

	sh := newShell(w, dev)
	err = sh.run(*hist)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

var errQuit = errors.New("quit")

type command struct {
	name string
	args string
	help string
	fct  func(args []string) error
}

type shell struct {
	w    io.Writer
	dev  *sciospec.Device
	cmds map[string]command
}

func newShell(w io.Writer, dev *sciospec.Device) *shell {
	sh := &shell{w: w, dev: dev}
	sh.cmds = make(map[string]command)
	for _, cmd := range []command{
		{"help", "", "display this help message", sh.cmdHelp},
		{"quit", "", "quit the shell", func([]string) error { return errQuit }},
		{"info", "", "display the device identification", sh.resp(sh.dev.DeviceInfo)},
		{"firmware", "", "display the firmware identifiers", sh.resp(sh.dev.FirmwareIDs)},
		{"power", "", "query the power plug state", sh.resp(sh.dev.PowerPlugDetect)},
		{"get-setup", "", "display the measurement setup", sh.cmdGetSetup},
		{"reset-setup", "", "reset the measurement setup", sh.status(sh.dev.ResetSetup)},
		{"soft-reset", "", "trigger a software reset", sh.status(sh.dev.SoftwareReset)},
		{"save", "", "save the settings into the device", sh.status(sh.dev.SaveSettings)},
		{"burst", "N", "set the burst count", sh.cmdBurst},
		{"fps", "FPS", "set the frame rate", sh.cmdFrameRate},
		{"freq", "FMIN [FMAX COUNT [lin|log]]", "set the excitation frequencies", sh.cmdFreq},
		{"amp", "AMPLITUDE", "set the excitation amplitude (in A)", sh.cmdAmplitude},
		{"led", "LED off|on|blink|auto", "set the mode of a front panel LED", sh.cmdLED},
		{"configure", "SETUP.json", "program a JSON measurement setup", sh.cmdConfigure},
		{"measure", "NEL GROUPS BURSTS", "run a measurement and display a summary", sh.cmdMeasure},
		{"send", "TOKENS...", "send a raw command made of hex tokens", sh.cmdSend},
	} {
		sh.cmds[cmd.name] = cmd
	}
	return sh
}

func (sh *shell) run(hist string) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetCompleter(sh.complete)

	if f, err := os.Open(hist); err == nil {
		_, _ = ln.ReadHistory(f)
		f.Close()
	}

	defer func() {
		f, err := os.Create(hist)
		if err != nil {
			log.Printf("could not create history file: %+v", err)
			return
		}
		defer f.Close()
		_, err = ln.WriteHistory(f)
		if err != nil {
			log.Printf("could not write history file: %+v", err)
		}
	}()

	for {
		line, err := ln.Prompt("eit> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		err = sh.exec(line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintf(sh.w, "error: %+v\n", err)
		}
	}
}

func (sh *shell) complete(line string) []string {
	var out []string
	for name := range sh.cmds {
		if strings.HasPrefix(name, line) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (sh *shell) exec(line string) error {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return nil
	}
	cmd, ok := sh.cmds[toks[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", toks[0])
	}
	return cmd.fct(toks[1:])
}

func (sh *shell) cmdHelp([]string) error {
	names := make([]string, 0, len(sh.cmds))
	for name := range sh.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := sh.cmds[name]
		fmt.Fprintf(sh.w, "  %-38s %s\n", strings.TrimSpace(cmd.name+" "+cmd.args), cmd.help)
	}
	return nil
}

func (sh *shell) printStatus(st sciospec.Status) {
	fmt.Fprintf(sh.w, "status: %v (0x%02x)\n", st, uint8(st))
}

func (sh *shell) printResp(resp sciospec.Response) {
	if resp.HasStatus {
		sh.printStatus(resp.Status)
	}
	fmt.Fprintf(sh.w, "raw:    %s\n", strings.Join(resp.Hex, " "))
}

func (sh *shell) status(fct func() (sciospec.Status, error)) func([]string) error {
	return func([]string) error {
		st, err := fct()
		if err != nil {
			return err
		}
		sh.printStatus(st)
		return nil
	}
}

func (sh *shell) resp(fct func() (sciospec.Response, error)) func([]string) error {
	return func([]string) error {
		resp, err := fct()
		if err != nil {
			return err
		}
		sh.printResp(resp)
		return nil
	}
}

func (sh *shell) cmdGetSetup([]string) error {
	entries, err := sh.dev.GetMeasurementSetup()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(sh.w, "%-24s %s\n", e.Op.String()+":", strings.Join(e.Resp.Hex, " "))
	}
	return nil
}

func (sh *shell) cmdBurst(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: burst N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("could not parse burst count %q: %w", args[0], err)
	}
	return sh.status(func() (sciospec.Status, error) { return sh.dev.SetBurstCount(n) })(nil)
}

func (sh *shell) cmdFrameRate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fps FPS")
	}
	fps, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("could not parse frame rate %q: %w", args[0], err)
	}
	return sh.status(func() (sciospec.Status, error) { return sh.dev.SetFrameRate(float32(fps)) })(nil)
}

func (sh *shell) cmdFreq(args []string) error {
	var (
		fmin, fmax float64
		count      = uint64(1)
		scale      = sciospec.LinearScale
		err        error
	)
	switch len(args) {
	case 1, 3, 4:
	default:
		return fmt.Errorf("usage: freq FMIN [FMAX COUNT [lin|log]]")
	}
	fmin, err = strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("could not parse frequency %q: %w", args[0], err)
	}
	fmax = fmin
	if len(args) >= 3 {
		fmax, err = strconv.ParseFloat(args[1], 32)
		if err != nil {
			return fmt.Errorf("could not parse frequency %q: %w", args[1], err)
		}
		count, err = strconv.ParseUint(args[2], 10, 16)
		if err != nil {
			return fmt.Errorf("could not parse frequency count %q: %w", args[2], err)
		}
	}
	if len(args) == 4 {
		switch args[3] {
		case "lin":
			scale = sciospec.LinearScale
		case "log":
			scale = sciospec.LogScale
		default:
			return fmt.Errorf("invalid frequency scale %q", args[3])
		}
	}
	return sh.status(func() (sciospec.Status, error) {
		return sh.dev.SetExcitationFreqs(float32(fmin), float32(fmax), uint16(count), scale)
	})(nil)
}

func (sh *shell) cmdAmplitude(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: amp AMPLITUDE")
	}
	amp, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("could not parse amplitude %q: %w", args[0], err)
	}
	return sh.status(func() (sciospec.Status, error) { return sh.dev.SetAmplitude(amp) })(nil)
}

func (sh *shell) cmdLED(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: led LED off|on|blink|auto")
	}
	led, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("could not parse LED %q: %w", args[0], err)
	}
	var mode sciospec.LEDMode
	switch args[1] {
	case "auto":
		return sh.status(func() (sciospec.Status, error) { return sh.dev.SetLEDAutoMode(led, true) })(nil)
	case "off":
		mode = sciospec.LEDOff
	case "on":
		mode = sciospec.LEDOn
	case "blink":
		mode = sciospec.LEDBlink
	default:
		return fmt.Errorf("invalid LED mode %q", args[1])
	}
	return sh.status(func() (sciospec.Status, error) { return sh.dev.SetLED(led, mode) })(nil)
}

func (sh *shell) cmdConfigure(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: configure SETUP.json")
	}
	setup, err := sciospec.LoadSetup(args[0])
	if err != nil {
		return err
	}
	err = sh.dev.Configure(setup)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.w, "configured %d electrodes, %d bursts\n", setup.NEl, setup.BurstCount)
	return nil
}

func (sh *shell) cmdMeasure(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: measure NEL GROUPS BURSTS")
	}
	var (
		cfg sciospec.Config
		err error
	)
	cfg.NEl, err = strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("could not parse number of electrodes %q: %w", args[0], err)
	}
	for _, v := range strings.Split(args[1], ",") {
		grp, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("could not parse channel group %q: %w", v, err)
		}
		cfg.ChannelGroups = append(cfg.ChannelGroups, grp)
	}
	cfg.BurstCount, err = strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("could not parse burst count %q: %w", args[2], err)
	}

	bursts, err := sh.dev.Measure(cfg)
	if err != nil {
		return err
	}
	for i, burst := range bursts {
		fmt.Fprintf(sh.w, "burst %d: %d frames\n", i, len(burst))
	}
	return nil
}

func (sh *shell) cmdSend(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: send TOKENS...")
	}
	raw, err := sciospec.ParseTokens(args)
	if err != nil {
		return err
	}
	cmd := sciospec.Command{Tag: raw[0], Data: raw[2 : len(raw)-1]}
	if raw[len(raw)-1] != cmd.Tag || int(raw[1]) != len(cmd.Data) {
		return fmt.Errorf("invalid command frame [%s]", strings.Join(args, " "))
	}
	resp, err := sh.dev.Send(cmd)
	if err != nil {
		return err
	}
	sh.printResp(resp)
	return nil
}
