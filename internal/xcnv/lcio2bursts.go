// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-lpc/eit/sciospec"
	"go-hep.org/x/hep/lcio"
)

// LCIO2Bursts reads back the bursts written by Bursts2LCIO.
func LCIO2Bursts(r *lcio.Reader, freq int, msg *log.Logger) ([][]sciospec.Frame, error) {
	var (
		bursts [][]sciospec.Frame
		i      = 0
	)
	if freq <= 0 {
		freq = 1
	}

	for r.Next() {
		if i%freq == 0 {
			msg.Printf("processing burst %d...", i)
		}
		evt := r.Event()
		if !evt.Has(collName) {
			return nil, fmt.Errorf("could not find collection %q in event %d", collName, evt.EventNumber)
		}
		coll, ok := evt.Get(collName).(*lcio.GenericObject)
		if !ok {
			return nil, fmt.Errorf("invalid collection type %T in event %d", evt.Get(collName), evt.EventNumber)
		}

		burst := make([]sciospec.Frame, len(coll.Data))
		for j, data := range coll.Data {
			f, err := frameFromGeneric(data)
			if err != nil {
				return nil, fmt.Errorf("could not decode frame %d of burst %d: %w", j, i, err)
			}
			burst[j] = f
		}
		bursts = append(bursts, burst)
		i++
	}

	if err := r.Err(); err != nil && !errors.Is(err, io.EOF) {
		return bursts, fmt.Errorf("could not read LCIO file: %w", err)
	}

	return bursts, nil
}

func frameFromGeneric(data lcio.GenericObjectData) (sciospec.Frame, error) {
	var f sciospec.Frame
	if got, want := len(data.I32s), nI32s; got != want {
		return f, fmt.Errorf("invalid number of integer words (got=%d, want=%d)", got, want)
	}
	if got, want := len(data.F32s), 2*len(f.Channels); got != want {
		return f, fmt.Errorf("invalid number of float words (got=%d, want=%d)", got, want)
	}

	f.StartTag = 0xb4
	f.EndTag = 0xb4
	f.ChannelGroup = uint8(data.I32s[i32Group])
	f.Excitation = [2]uint8{uint8(data.I32s[i32Src]), uint8(data.I32s[i32Sink])}
	row := data.I32s[i32Row]
	f.FrequencyRow = [2]byte{byte(row >> 8), byte(row)}
	f.Timestamp = uint32(data.I32s[i32Timestamp])
	for i := range f.Channels {
		f.Channels[i] = complex(data.F32s[2*i], data.F32s[2*i+1])
	}
	return f, nil
}
