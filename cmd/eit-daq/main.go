// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eit-daq configures a ScioSpec EIT device, runs a measurement
// and stores the reassembled bursts.
//
// Usage: eit-daq [OPTIONS]
//
// Example:
//
//	$> eit-daq -addr=/dev/ttyUSB0 -setup=./setup.json -run=42 -o ./data -csv
//	$> eit-daq -addr=ftdi://0403:6014 -run=43 -db=eit
package main // import "github.com/go-lpc/eit/cmd/eit-daq"

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-lpc/eit"
	"github.com/go-lpc/eit/eitdb"
	"github.com/go-lpc/eit/internal/xcnv"
	"github.com/go-lpc/eit/sciospec"
	"github.com/go-lpc/eit/sciospec/transport"
	"github.com/sbinet/pmon"
	"go-hep.org/x/hep/lcio"
	"golang.org/x/sync/errgroup"
	mail "gopkg.in/gomail.v2"
)

var (
	openLink = transport.Open
	openDB   = eitdb.Open
)

func main() {
	var (
		addr   = flag.String("addr", "", "device address (serial port, serial://port?baud=, ftdi://vid:pid)")
		setup  = flag.String("setup", "", "path to a JSON measurement setup")
		runnbr = flag.Int("run", 0, "run number")
		odir   = flag.String("o", ".", "output dir")
		doCSV  = flag.Bool("csv", false, "also write bursts as CSV")
		dbname = flag.String("db", "", "name of the database where to store the measurement")
		idle   = flag.Duration("idle", 100*time.Millisecond, "quiet period ending a device response")
		doMon  = flag.Bool("pmon", false, "enable pmon monitoring")
		freq   = flag.Duration("freq", 1*time.Second, "pmon frequency")
		alert  = flag.Bool("alert", false, "send a mail alert on failure")
	)

	flag.Parse()

	log.SetPrefix("eit-daq: ")
	log.SetFlags(0)

	if vers, _ := eit.Version(); vers != "" {
		log.Printf("version: %s", vers)
	}

	job := job{
		addr:  *addr,
		setup: *setup,
		run:   int32(*runnbr),
		odir:  *odir,
		csv:   *doCSV,
		db:    *dbname,
		idle:  *idle,
		mon:   *doMon,
		freq:  *freq,
	}

	err := run(context.Background(), job)
	if err != nil {
		if *alert {
			alertMail(job, err)
		}
		log.Fatalf("could not run eit-daq: %+v", err)
	}
}

type job struct {
	addr  string
	setup string
	run   int32
	odir  string
	csv   bool
	db    string
	idle  time.Duration
	mon   bool
	freq  time.Duration
}

func run(ctx context.Context, job job) error {
	setup := sciospec.DefaultSetup()
	if job.setup != "" {
		var err error
		setup, err = sciospec.LoadSetup(job.setup)
		if err != nil {
			return fmt.Errorf("could not load setup: %w", err)
		}
	}
	if job.addr != "" {
		setup.Port = job.addr
	}
	if setup.Port == "" {
		return fmt.Errorf("no device address")
	}

	if job.mon {
		err := monitor(job)
		if err != nil {
			return err
		}
	}

	link, err := openLink(setup.Port)
	if err != nil {
		return fmt.Errorf("could not open device %q: %w", setup.Port, err)
	}
	defer link.Close()

	dev := sciospec.New(
		link,
		sciospec.WithLogger(log.New(os.Stdout, "sciospec: ", 0)),
		sciospec.WithIdleTimeout(job.idle),
	)

	log.Printf("configuring device %q...", setup.Port)
	err = dev.Configure(setup)
	if err != nil {
		return fmt.Errorf("could not configure device: %w", err)
	}

	log.Printf("measuring %d bursts...", setup.BurstCount)
	start := time.Now().UTC()
	bursts, err := dev.Measure(setup.Config)
	if err != nil {
		return fmt.Errorf("could not run measurement: %w", err)
	}
	log.Printf("measuring %d bursts... [done] (%v)", len(bursts), time.Since(start))

	err = link.Close()
	if err != nil {
		return fmt.Errorf("could not close device: %w", err)
	}

	return save(ctx, job, setup, start, bursts)
}

func save(ctx context.Context, job job, setup sciospec.Setup, start time.Time, bursts [][]sciospec.Frame) error {
	err := os.MkdirAll(job.odir, 0755)
	if err != nil {
		return fmt.Errorf("could not create output dir %q: %w", job.odir, err)
	}

	var grp errgroup.Group
	grp.Go(func() error {
		fname := filepath.Join(job.odir, fmt.Sprintf("eit_%03d.slcio", job.run))
		return writeLCIO(fname, bursts, setup, job.run)
	})

	if job.csv {
		grp.Go(func() error {
			fname := filepath.Join(job.odir, fmt.Sprintf("eit_%03d.csv", job.run))
			return writeCSV(fname, bursts)
		})
	}

	if job.db != "" {
		grp.Go(func() error {
			return store(ctx, job.db, eitdb.Measurement{
				Date:    start,
				Port:    setup.Port,
				NBursts: len(bursts),
				Setup:   setup,
			}, bursts)
		})
	}

	err = grp.Wait()
	if err != nil {
		return fmt.Errorf("could not save measurement: %w", err)
	}
	return nil
}

func writeLCIO(fname string, bursts [][]sciospec.Frame, setup sciospec.Setup, run int32) error {
	w, err := lcio.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create LCIO file %q: %w", fname, err)
	}
	defer w.Close()

	msg := log.New(os.Stdout, "lcio: ", 0)
	err = xcnv.Bursts2LCIO(w, bursts, setup, run, msg)
	if err != nil {
		return fmt.Errorf("could not write LCIO file %q: %w", fname, err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close LCIO file %q: %w", fname, err)
	}
	log.Printf("saved %q", fname)
	return nil
}

func writeCSV(fname string, bursts [][]sciospec.Frame) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create CSV file %q: %w", fname, err)
	}
	defer f.Close()

	err = xcnv.Bursts2CSV(f, bursts)
	if err != nil {
		return fmt.Errorf("could not write CSV file %q: %w", fname, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close CSV file %q: %w", fname, err)
	}
	log.Printf("saved %q", fname)
	return nil
}

func store(ctx context.Context, dbname string, m eitdb.Measurement, bursts [][]sciospec.Frame) error {
	db, err := openDB(dbname)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}
	defer db.Close()

	id, err := db.InsertMeasurement(ctx, m, bursts)
	if err != nil {
		return fmt.Errorf("could not store measurement: %w", err)
	}
	log.Printf("stored measurement id=%d in db %q", id, dbname)

	err = db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	return nil
}

func monitor(job job) error {
	pid := os.Getpid()
	p, err := pmon.Monitor(pid)
	if err != nil {
		return fmt.Errorf("could not start monitoring (pid=%d): %w", pid, err)
	}

	err = os.MkdirAll(job.odir, 0755)
	if err != nil {
		return fmt.Errorf("could not create output dir %q: %w", job.odir, err)
	}

	fname := filepath.Join(job.odir, fmt.Sprintf("eit_%03d-pmon.log", job.run))
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create pmon log file: %w", err)
	}
	p.W = f
	p.Freq = job.freq

	go func() {
		defer f.Close()
		log.Printf("run pmon (pid=%d)...", pid)
		err := p.Run()
		if err != nil {
			log.Printf("could not run monitoring: %+v", err)
		}
	}()

	return nil
}

var (
	alertMailUsr  = os.Getenv("MAIL_USERNAME")
	alertMailPwd  = os.Getenv("MAIL_PASSWORD")
	alertMailSrv  = os.Getenv("MAIL_SERVER")
	alertMailPort = atoi(os.Getenv("MAIL_PORT"))
	alertMailTgts = strings.Split(os.Getenv("MAIL_TGTS"), ",")
)

func alertMail(job job, cause error) {
	if alertMailUsr == "" || alertMailPwd == "" ||
		alertMailSrv == "" || alertMailPort == 0 ||
		len(alertMailTgts) == 0 {
		log.Printf("could not send mail alert: missing credentials")
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", alertMailUsr)
	msg.SetHeader("Bcc", alertMailTgts...)
	msg.SetHeader("Subject", fmt.Sprintf("[eit-daq] run %d failed", job.run))
	msg.SetBody("text/plain", fmt.Sprintf("run:   %d\naddr:  %q\nsetup: %q\nerror: %+v",
		job.run, job.addr, job.setup, cause,
	))

	dial := mail.NewDialer(alertMailSrv, alertMailPort, alertMailUsr, alertMailPwd)
	dial.TLSConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	err := dial.DialAndSend(msg)
	if err != nil {
		log.Printf("could not send mail alert: %+v", err)
	}
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
