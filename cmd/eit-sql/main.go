// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eit-sql inspects the EIT measurement database.
package main // import "github.com/go-lpc/eit/cmd/eit-sql"

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-lpc/eit/eitdb"
	"github.com/go-lpc/eit/internal/stats"
)

func main() {
	log.SetPrefix("eit-sql: ")
	log.SetFlags(0)

	var (
		dbname = flag.String("db", "eit", "name of the EIT database")
		id     = flag.Int64("id", -1, "measurement ID to inspect (default: last one)")
		list   = flag.Bool("list", false, "list all the stored measurements")
	)

	flag.Parse()

	db, err := eitdb.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open EIT db: %+v", err)
	}
	defer db.Close()

	err = doQuery(db, *id, *list)
	if err != nil {
		log.Fatalf("could not do query: %+v", err)
	}
}

func doQuery(db *eitdb.DB, id int64, list bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if list {
		ms, err := db.Measurements(ctx)
		if err != nil {
			return fmt.Errorf("could not retrieve measurements: %w", err)
		}
		log.Printf("measurements: %d", len(ms))
		for _, m := range ms {
			log.Printf("id=%d date=%v port=%q bursts=%d n_el=%d freq=%vHz",
				m.ID, m.Date.Format(time.RFC3339), m.Port, m.NBursts,
				m.Setup.NEl, m.Setup.ExcFreq,
			)
		}
		return nil
	}

	setup, err := db.LastSetup(ctx)
	if err != nil {
		return fmt.Errorf("could not get last setup: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err = enc.Encode(setup)
	if err != nil {
		return fmt.Errorf("could not encode last setup: %w", err)
	}

	if id < 0 {
		id, err = db.LastMeasurementID(ctx)
		if err != nil {
			return fmt.Errorf("could not get last measurement id: %w", err)
		}
	}
	log.Printf("measurement: %d", id)

	bursts, err := db.Bursts(ctx, id)
	if err != nil {
		return fmt.Errorf("could not retrieve bursts of measurement %d: %w", id, err)
	}
	log.Printf("bursts: %d", len(bursts))
	for _, sum := range stats.Summarize(bursts) {
		log.Printf("src=%2d sink=%2d el=%2d |V|=%+e±%e phi=%+e±%e",
			sum.Src, sum.Sink, sum.Electrode,
			sum.MeanAbs, sum.StdAbs, sum.MeanPhase, sum.StdPhase,
		)
	}

	return nil
}
