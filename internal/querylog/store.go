// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package querylog provides read-only access to the resolver's
// persisted query log (the Pi-hole FTL sqlite database). The database
// is owned by the resolver; this package never writes to it.
package querylog

import (
	"database/sql"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"grimm.is/dnswatch/internal/errors"
)

// Store reads query records from the FTL database.
type Store struct {
	db *sql.DB
}

// Open opens the resolver database read-only and verifies the expected
// schema is present. A missing file or a database without the queries
// table returns a KindUnavailable error; the resolver being absent is
// an expected operating condition, not a crash.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "query log database not found at %s", path)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindUnavailable, "cannot open query log database %s", path)
	}

	s := &Store{db: db}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) checkSchema() error {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='queries'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return errors.New(errors.KindUnavailable, "queries table not found in database")
	}
	if err != nil {
		return errors.Wrap(err, errors.KindUnavailable, "cannot inspect database schema")
	}
	return nil
}

// Scan returns all records in [from, to], newest first. The result is a
// single bounded read; there are no cursor semantics.
func (s *Store) Scan(from, to time.Time) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT client, domain, timestamp, status
		FROM queries
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
	`, from.Unix(), to.Unix())
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnavailable, "query log scan failed")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Client, &r.Domain, &r.Timestamp, &r.Status); err != nil {
			return nil, errors.Wrap(err, errors.KindUnavailable, "query log row scan failed")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KindUnavailable, "query log scan failed")
	}
	return records, nil
}
