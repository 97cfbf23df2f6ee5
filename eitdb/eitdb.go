// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eitdb holds types to store and retrieve measurement setups and
// captured EIT bursts from the EIT measurement database.
package eitdb // import "github.com/go-lpc/eit/eitdb"

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-lpc/eit/sciospec"
	_ "github.com/go-sql-driver/mysql"
)

var (
	host = "localhost"
	usr  = "username"
	pwd  = "s3cr3t"

	drvName = "mysql"
)

// DB exposes convenience methods to store and retrieve measurements
// from the EIT database.
type DB struct {
	db   *sql.DB
	name string // name of the EIT database
}

// Measurement describes a stored capture.
type Measurement struct {
	ID      int64
	Date    time.Time
	Port    string
	NBursts int
	Setup   sciospec.Setup
}

// Open opens a connection to the EIT database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("eitdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("eitdb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("eitdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// LastSetup returns the most recently registered measurement setup.
func (db *DB) LastSetup(ctx context.Context) (sciospec.Setup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		setup = sciospec.DefaultSetup()
		raw   string
	)
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT setup FROM setups ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return setup, fmt.Errorf("eitdb: could not query setup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&raw)
		if err != nil {
			return setup, fmt.Errorf("eitdb: could not get setup value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return setup, fmt.Errorf("eitdb: could not scan db for setup: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return setup, fmt.Errorf("eitdb: context error while retrieving setup: %w", err)
	}

	if raw == "" {
		return setup, fmt.Errorf("eitdb: no setup in db %q", db.name)
	}

	setup, err = sciospec.ReadSetup(strings.NewReader(raw))
	if err != nil {
		return setup, fmt.Errorf("eitdb: could not decode setup: %w", err)
	}

	return setup, nil
}

// LastMeasurementID returns the identifier of the most recent measurement.
func (db *DB) LastMeasurementID(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id int64
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT identifier FROM measurements ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return id, fmt.Errorf("eitdb: could not query measurement-id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&id)
		if err != nil {
			return id, fmt.Errorf("eitdb: could not get measurement-id value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return id, fmt.Errorf("eitdb: could not scan db for measurement-id: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return id, fmt.Errorf("eitdb: context error while retrieving measurement-id: %w", err)
	}

	return id, nil
}

// Measurements returns all the stored measurements.
func (db *DB) Measurements(ctx context.Context) ([]Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ms []Measurement
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT identifier, datetime, port, nbursts, setup FROM measurements ORDER BY datetime",
	)
	if err != nil {
		return ms, fmt.Errorf("eitdb: could not run measurements query: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var (
			m   Measurement
			raw string
		)
		err = rows.Scan(&m.ID, &m.Date, &m.Port, &m.NBursts, &raw)
		if err != nil {
			return ms, fmt.Errorf("eitdb: could not scan row %d for measurements: %w", i, err)
		}
		err = json.Unmarshal([]byte(raw), &m.Setup)
		if err != nil {
			return ms, fmt.Errorf("eitdb: could not decode setup of measurement %d: %w", m.ID, err)
		}
		i++
		ms = append(ms, m)
	}

	if err := rows.Err(); err != nil {
		return ms, fmt.Errorf("eitdb: could not scan db for measurements: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return ms, fmt.Errorf("eitdb: context error while retrieving measurements: %w", err)
	}

	return ms, nil
}

// InsertMeasurement stores a captured measurement and its bursts, and
// returns the identifier of the new measurement.
func (db *DB) InsertMeasurement(ctx context.Context, m Measurement, bursts [][]sciospec.Frame) (int64, error) {
	setup, err := json.Marshal(m.Setup)
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not encode setup: %w", err)
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		"INSERT INTO measurements (datetime, port, nbursts, setup) VALUES (?, ?, ?, ?)",
		m.Date.UTC(), m.Port, len(bursts), string(setup),
	)
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not insert measurement: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not retrieve measurement id: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO frames (measurement, burst, idx, channel_group, src, sink, timestamp, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not prepare frames statement: %w", err)
	}
	defer stmt.Close()

	buf := make([]byte, 0, sciospec.FrameSize)
	for ib, burst := range bursts {
		for i, f := range burst {
			buf = sciospec.AppendFrame(buf[:0], f)
			_, err = stmt.ExecContext(
				ctx,
				id, ib, i,
				int64(f.ChannelGroup), int64(f.Excitation[0]), int64(f.Excitation[1]),
				int64(f.Timestamp), append([]byte(nil), buf...),
			)
			if err != nil {
				return 0, fmt.Errorf("eitdb: could not insert frame %d of burst %d: %w", i, ib, err)
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("eitdb: could not commit measurement: %w", err)
	}

	return id, nil
}

// Bursts returns the bursts stored for the measurement id.
func (db *DB) Bursts(ctx context.Context, id int64) ([][]sciospec.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bursts [][]sciospec.Frame
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT burst, data FROM frames WHERE measurement=? ORDER BY burst, idx",
		id,
	)
	if err != nil {
		return bursts, fmt.Errorf("eitdb: could not run frames query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ib  int
			raw []byte
		)
		err = rows.Scan(&ib, &raw)
		if err != nil {
			return bursts, fmt.Errorf("eitdb: could not scan frame: %w", err)
		}
		f, err := sciospec.ParseFrame(raw)
		if err != nil {
			return bursts, fmt.Errorf("eitdb: could not decode frame of burst %d: %w", ib, err)
		}
		if ib < 0 {
			return bursts, fmt.Errorf("eitdb: invalid burst index %d", ib)
		}
		for len(bursts) <= ib {
			bursts = append(bursts, nil)
		}
		bursts[ib] = append(bursts[ib], f)
	}

	if err := rows.Err(); err != nil {
		return bursts, fmt.Errorf("eitdb: could not scan db for frames: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return bursts, fmt.Errorf("eitdb: context error while retrieving frames: %w", err)
	}

	return bursts, nil
}
