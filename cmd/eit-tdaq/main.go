// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eit-tdaq starts a TDAQ server driving a ScioSpec EIT device.
//
// The /config command carries the JSON measurement setup as a string.
// When empty, the default setup is used, with the device address taken
// from the EIT_ADDR environment variable.
// Measured bursts are published on the /bursts output.
package main // import "github.com/go-lpc/eit/cmd/eit-tdaq"

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/eit/internal/xcnv"
	"github.com/go-lpc/eit/sciospec"
	"github.com/go-lpc/eit/sciospec/transport"
)

func main() {
	cmd := flags.New()

	dev := newServer(cmd.Args[0], os.Getenv("EIT_ADDR"))

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/bursts", dev.bursts)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type server struct {
	name string
	addr string
	open func(addr string) (transport.Link, error)
	msg  *log.Logger

	setup sciospec.Setup
	link  transport.Link
	dev   *sciospec.Device

	n    int
	data chan []byte
}

func newServer(name, addr string) *server {
	return &server{
		name:  name,
		addr:  addr,
		open:  transport.Open,
		msg:   log.New(os.Stdout, "sciospec: ", 0),
		setup: sciospec.DefaultSetup(),
		data:  make(chan []byte, 16),
	}
}

func (srv *server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	err := srv.config(req.Body)
	if err != nil {
		ctx.Msg.Errorf("could not configure: %+v", err)
		return err
	}
	ctx.Msg.Infof("device %q: %d electrodes, %d bursts", srv.setup.Port, srv.setup.NEl, srv.setup.BurstCount)
	return nil
}

func (srv *server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	err := srv.init()
	if err != nil {
		ctx.Msg.Errorf("could not initialize device: %+v", err)
		return err
	}
	return nil
}

func (srv *server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	srv.n = 0
	srv.data = make(chan []byte, 16)
	if srv.dev == nil {
		return nil
	}
	_, err := srv.dev.ResetSetup()
	if err != nil {
		return fmt.Errorf("could not reset device setup: %w", err)
	}
	return nil
}

func (srv *server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	if srv.dev == nil {
		return fmt.Errorf("device not configured")
	}
	srv.n = 0
	return nil
}

func (srv *server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	n := srv.n
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (srv *server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return srv.close()
}

func (srv *server) config(body []byte) error {
	setup := sciospec.DefaultSetup()
	setup.Port = srv.addr
	if len(body) > 0 {
		dec := tdaq.NewDecoder(bytes.NewReader(body))
		raw := dec.ReadStr()
		if err := dec.Err(); err != nil {
			return fmt.Errorf("could not decode setup: %w", err)
		}
		s, err := sciospec.ReadSetup(strings.NewReader(raw))
		if err != nil {
			return fmt.Errorf("could not read setup: %w", err)
		}
		setup = s
		if setup.Port == "" {
			setup.Port = srv.addr
		}
	}
	if setup.Port == "" {
		return fmt.Errorf("no device address")
	}

	err := srv.close()
	if err != nil {
		return err
	}

	link, err := srv.open(setup.Port)
	if err != nil {
		return fmt.Errorf("could not open device %q: %w", setup.Port, err)
	}

	srv.setup = setup
	srv.link = link
	srv.dev = sciospec.New(link, sciospec.WithLogger(srv.msg))
	return nil
}

func (srv *server) init() error {
	if srv.dev == nil {
		return fmt.Errorf("device not configured")
	}
	err := srv.dev.Configure(srv.setup)
	if err != nil {
		return fmt.Errorf("could not configure device: %w", err)
	}
	return nil
}

func (srv *server) close() error {
	if srv.link == nil {
		return nil
	}
	err := srv.link.Close()
	srv.link = nil
	srv.dev = nil
	if err != nil {
		return fmt.Errorf("could not close device: %w", err)
	}
	return nil
}

// measure runs one measurement and encodes its bursts.
func (srv *server) measure() ([]byte, error) {
	bursts, err := srv.dev.Measure(srv.setup.Config)
	if err != nil {
		return nil, fmt.Errorf("could not run measurement: %w", err)
	}
	buf := new(bytes.Buffer)
	err = xcnv.Bursts2TDAQ(buf, bursts)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (srv *server) bursts(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-srv.data:
		dst.Body = data
	}
	return nil
}

func (srv *server) run(ctx tdaq.Context) error {
	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		default:
			raw, err := srv.measure()
			if err != nil {
				ctx.Msg.Errorf("%+v", err)
				return err
			}
			select {
			case srv.data <- raw:
				srv.n++
			case <-ctx.Ctx.Done():
				return nil
			}
		}
	}
}
