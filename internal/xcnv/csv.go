// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-lpc/eit/sciospec"
)

var csvHeader = []string{
	"burst", "frame", "channel_group", "src", "sink", "timestamp_ms",
	"channel", "electrode", "re", "im",
}

// Bursts2CSV writes one CSV record per channel of every frame.
func Bursts2CSV(w io.Writer, bursts [][]sciospec.Frame) error {
	cw := csv.NewWriter(w)

	err := cw.Write(csvHeader)
	if err != nil {
		return fmt.Errorf("could not write CSV header: %w", err)
	}

	rec := make([]string, len(csvHeader))
	for ib, burst := range bursts {
		for i, f := range burst {
			rec[0] = strconv.Itoa(ib)
			rec[1] = strconv.Itoa(i)
			rec[2] = strconv.Itoa(int(f.ChannelGroup))
			rec[3] = strconv.Itoa(int(f.Excitation[0]))
			rec[4] = strconv.Itoa(int(f.Excitation[1]))
			rec[5] = strconv.FormatUint(uint64(f.Timestamp), 10)
			for ch, v := range f.Channels {
				rec[6] = strconv.Itoa(ch + 1)
				rec[7] = strconv.Itoa(f.Electrode(ch + 1))
				rec[8] = strconv.FormatFloat(float64(real(v)), 'g', -1, 32)
				rec[9] = strconv.FormatFloat(float64(imag(v)), 'g', -1, 32)
				err = cw.Write(rec)
				if err != nil {
					return fmt.Errorf("could not write frame %d of burst %d: %w", i, ib, err)
				}
			}
		}
	}

	cw.Flush()
	err = cw.Error()
	if err != nil {
		return fmt.Errorf("could not flush CSV: %w", err)
	}

	return nil
}
