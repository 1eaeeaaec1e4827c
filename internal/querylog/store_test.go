// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package querylog

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"grimm.is/dnswatch/internal/errors"
)

// newFTLDB creates a database with the FTL queries schema and the given
// (client, domain, timestamp, status) rows.
func newFTLDB(t *testing.T, rows []Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pihole-FTL.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		type INTEGER,
		status INTEGER NOT NULL,
		domain TEXT NOT NULL,
		client TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO queries (timestamp, status, domain, client) VALUES (?, ?, ?, ?)`,
			r.Timestamp, r.Status, r.Domain, r.Client,
		); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
	if errors.GetKind(err) != errors.KindUnavailable {
		t.Errorf("expected KindUnavailable, got %v", errors.GetKind(err))
	}
}

func TestOpen_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE notqueries (id INTEGER)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	_, err = Open(path)
	if err == nil {
		t.Fatal("expected error for missing queries table")
	}
	if errors.GetKind(err) != errors.KindUnavailable {
		t.Errorf("expected KindUnavailable, got %v", errors.GetKind(err))
	}
}

func TestScan_WindowAndOrder(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Unix()
	path := newFTLDB(t, []Record{
		{Client: "192.168.1.10", Domain: "a.example", Timestamp: base - 3600, Status: StatusAllowed},
		{Client: "192.168.1.11", Domain: "b.example", Timestamp: base, Status: StatusBlockedGravity},
		{Client: "192.168.1.12", Domain: "c.example", Timestamp: base + 3600, Status: StatusAllowed},
		{Client: "192.168.1.13", Domain: "old.example", Timestamp: base - 86400, Status: StatusAllowed},
	})

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	from := time.Unix(base-7200, 0)
	to := time.Unix(base+7200, 0)
	records, err := s.Scan(from, to)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records in window, got %d", len(records))
	}
	// Newest first.
	if records[0].Domain != "c.example" || records[1].Domain != "b.example" || records[2].Domain != "a.example" {
		t.Errorf("unexpected order: %v", records)
	}
	if !records[1].Blocked() {
		t.Error("gravity-blocked record must report Blocked")
	}
	if records[0].Blocked() {
		t.Error("allowed record must not report Blocked")
	}
}

func TestScan_EmptyWindow(t *testing.T) {
	path := newFTLDB(t, []Record{
		{Client: "192.168.1.10", Domain: "a.example", Timestamp: 1000, Status: StatusAllowed},
	})

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	records, err := s.Scan(time.Unix(2000, 0), time.Unix(3000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestStatusDescription(t *testing.T) {
	cases := map[int]string{
		0:  "Unknown",
		1:  "Blocked (gravity)",
		2:  "Allowed",
		3:  "Blocked (regex)",
		4:  "Blocked (exact)",
		5:  "Blocked (CNAME)",
		9:  "Blocked (gravity, CNAME)",
		10: "Blocked (regex, CNAME)",
		11: "Blocked (exact, CNAME)",
		42: "Unknown",
		-1: "Unknown",
	}
	for code, want := range cases {
		if got := StatusDescription(code); got != want {
			t.Errorf("StatusDescription(%d) = %q, want %q", code, got, want)
		}
	}
}
