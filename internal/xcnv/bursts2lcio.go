// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"log"

	"github.com/go-lpc/eit/sciospec"
	"go-hep.org/x/hep/lcio"
)

// layout of the integer words of a frame.
const (
	i32Group = iota
	i32Src
	i32Sink
	i32Row
	i32Timestamp
	nI32s
)

// Bursts2LCIO writes each burst as an LCIO event.
// Each frame is stored as a generic object holding the frame header
// in its integer words and the 16 complex channels in its float words.
func Bursts2LCIO(w *lcio.Writer, bursts [][]sciospec.Frame, setup sciospec.Setup, run int32, msg *log.Logger) error {
	err := w.WriteRunHeader(&lcio.RunHeader{
		RunNumber: run,
		Detector:  detector,
		Descr:     setup.Notes,
		Params: lcio.Params{
			Ints: map[string][]int32{
				"BurstCount":   {int32(setup.BurstCount)},
				"NEl":          {int32(setup.NEl)},
				"ChannelGroup": i32sFromInts(setup.ChannelGroups),
				"InjSkip":      {int32(setup.InjSkip)},
				"Gain":         {int32(setup.Gain)},
				"ADCRange":     {int32(setup.ADCRange)},
			},
			Floats: map[string][]float32{
				"ExcFreq":   {setup.ExcFreq},
				"FrameRate": {setup.FrameRate},
				"Amplitude": {float32(setup.Amplitude)},
			},
			Strings: map[string][]string{
				"Object":   {setup.Object},
				"Material": {setup.Material},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("could not write run header: %w", err)
	}

	for i, burst := range bursts {
		if i%100 == 0 {
			msg.Printf("processing burst %d...", i)
		}

		evt := lcio.Event{
			RunNumber:   run,
			EventNumber: int32(i),
			Detector:    detector,
		}
		if len(burst) > 0 {
			evt.TimeStamp = int64(burst[0].Timestamp)
		}

		coll := &lcio.GenericObject{
			Data: make([]lcio.GenericObjectData, len(burst)),
		}
		for j, f := range burst {
			coll.Data[j] = genericFromFrame(f)
		}
		evt.Add(collName, coll)

		err = w.WriteEvent(&evt)
		if err != nil {
			return fmt.Errorf("could not write burst %d: %w", i, err)
		}
	}

	return nil
}

func genericFromFrame(f sciospec.Frame) lcio.GenericObjectData {
	var (
		i32s = make([]int32, nI32s)
		f32s = make([]float32, 0, 2*len(f.Channels))
	)
	i32s[i32Group] = int32(f.ChannelGroup)
	i32s[i32Src] = int32(f.Excitation[0])
	i32s[i32Sink] = int32(f.Excitation[1])
	i32s[i32Row] = int32(f.FrequencyRow[0])<<8 | int32(f.FrequencyRow[1])
	i32s[i32Timestamp] = int32(f.Timestamp)
	for _, v := range f.Channels {
		f32s = append(f32s, real(v), imag(v))
	}
	return lcio.GenericObjectData{I32s: i32s, F32s: f32s}
}

func i32sFromInts(vs []int) []int32 {
	o := make([]int32, len(vs))
	for i, v := range vs {
		o[i] = int32(v)
	}
	return o
}
