// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert EIT bursts to/from LCIO and TDAQ
// frames, and to CSV.
package xcnv // import "github.com/go-lpc/eit/internal/xcnv"

const (
	detector = "EIT-ScioSpec"
	collName = "EIT_FRAMES"
)
