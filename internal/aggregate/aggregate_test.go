// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package aggregate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/dnswatch/internal/category"
	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/devices"
	"grimm.is/dnswatch/internal/errors"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/querylog"
)

type fakeScanner struct {
	records []querylog.Record
	err     error
	from    time.Time
	to      time.Time
}

func (f *fakeScanner) Scan(from, to time.Time) ([]querylog.Record, error) {
	f.from, f.to = from, to
	return f.records, f.err
}

func newTestAggregator(t *testing.T, scanner QueryScanner) *Aggregator {
	t.Helper()
	logger := logging.New(logging.DefaultConfig())
	cats := category.NewStore([]category.Category{
		category.NewCategory("ads", []string{"doubleclick.net"}),
		category.NewCategory("social", []string{"tiktok.com"}),
	})
	dir := devices.Load(filepath.Join(t.TempDir(), "devices.json"), map[string]string{
		"192.168.1.10": "Dad-Laptop",
		"192.168.1.11": "Kid-Tablet",
	}, logger)
	return New(scanner, cats, dir, logger, nil)
}

func rec(client, domain string, ts int64, status int) querylog.Record {
	return querylog.Record{Client: client, Domain: domain, Timestamp: ts, Status: status}
}

func TestAggregate_BlockedCounts(t *testing.T) {
	base := time.Now().Unix()
	records := make([]querylog.Record, 0, 10)
	// 7 of 10 records have a status other than Allowed, including one
	// Unknown which deliberately counts as blocked.
	statuses := []int{1, 2, 3, 4, 5, 9, 0, 2, 2, 10}
	for i, st := range statuses {
		records = append(records, rec("192.168.1.10", "example.com", base-int64(i), st))
	}

	a := newTestAggregator(t, &fakeScanner{records: records})
	s := a.Aggregate(1, "")

	assert.Equal(t, 10, s.TotalQueries)
	assert.Equal(t, 7, s.BlockedQueries)
	assert.InDelta(t, 70.0, s.BlockedPercentage, 0.0001)
}

func TestAggregate_EmptyWindow(t *testing.T) {
	a := newTestAggregator(t, &fakeScanner{records: nil})
	s := a.Aggregate(1, "")

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.TotalQueries)
	assert.Zero(t, s.BlockedPercentage)
	assert.Nil(t, s.DateRange)
	assert.NotNil(t, s.DeviceActivity)
}

func TestAggregate_StoreError(t *testing.T) {
	scanner := &fakeScanner{err: errors.New(errors.KindUnavailable, "db gone")}
	a := newTestAggregator(t, scanner)

	s := a.Aggregate(1, "")
	assert.True(t, s.Empty(), "store errors degrade to an empty summary")
}

func TestAggregate_NilStore(t *testing.T) {
	a := newTestAggregator(t, nil)
	s := a.Aggregate(1, "")
	assert.True(t, s.Empty())
}

func TestParse_WindowStartsAtMidnight(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 45, 0, time.Local)
	restore := clock.SetForTest(func() time.Time { return now }, nil)
	defer restore()

	scanner := &fakeScanner{}
	a := newTestAggregator(t, scanner)
	a.Parse(1, "")

	wantStart := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	assert.Equal(t, wantStart, scanner.from)
	assert.Equal(t, now, scanner.to)
}

func TestParse_ClassifiesRecords(t *testing.T) {
	ts := time.Date(2026, 3, 10, 9, 15, 0, 0, time.Local)
	scanner := &fakeScanner{records: []querylog.Record{
		rec("192.168.1.10", "Static.DoubleClick.NET", ts.Unix(), querylog.StatusBlockedGravity),
		rec("10.0.0.9", "unknown.example", ts.Unix(), querylog.StatusAllowed),
	}}
	a := newTestAggregator(t, scanner)

	got := a.Parse(1, "")
	require.Len(t, got, 2)

	assert.Equal(t, "Dad-Laptop", got[0].Device)
	assert.Equal(t, "ads", got[0].Category)
	assert.Equal(t, 9, got[0].Hour)
	assert.Equal(t, "2026-03-10", got[0].Date)
	assert.Equal(t, "Blocked (gravity)", got[0].StatusDescription)

	// Unmapped client keeps its raw address; unknown domain is
	// uncategorized.
	assert.Equal(t, "10.0.0.9", got[1].Device)
	assert.Equal(t, category.Uncategorized, got[1].Category)
	assert.Equal(t, "Allowed", got[1].StatusDescription)
}

func TestParse_DeviceFilter(t *testing.T) {
	base := time.Now().Unix()
	scanner := &fakeScanner{records: []querylog.Record{
		rec("192.168.1.10", "a.example", base, 2),
		rec("192.168.1.11", "b.example", base, 2),
		rec("10.0.0.9", "c.example", base, 2),
	}}
	a := newTestAggregator(t, scanner)

	got := a.Parse(1, "laptop")
	require.Len(t, got, 1, "filter is a case-insensitive substring over resolved names")
	assert.Equal(t, "Dad-Laptop", got[0].Device)

	assert.Len(t, a.Parse(1, ""), 3, "empty filter keeps everything")
	assert.Len(t, a.Parse(1, "nosuchdevice"), 0)
}

func TestSummarize_TopsAndDistincts(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	scanner := &fakeScanner{records: []querylog.Record{
		rec("192.168.1.10", "doubleclick.net", base.Unix(), 1),
		rec("192.168.1.10", "doubleclick.net", base.Add(time.Minute).Unix(), 1),
		rec("192.168.1.10", "tiktok.com", base.Add(2*time.Minute).Unix(), 2),
		rec("192.168.1.11", "other.example", base.Add(3*time.Minute).Unix(), 2),
	}}
	a := newTestAggregator(t, scanner)
	s := a.Aggregate(1, "")

	assert.Equal(t, 4, s.TotalQueries)
	assert.Equal(t, 3, s.UniqueDomains)
	assert.Equal(t, 2, s.UniqueDevices)

	require.NotNil(t, s.DateRange)
	assert.Equal(t, base, s.DateRange.Start)
	assert.Equal(t, base.Add(3*time.Minute), s.DateRange.End)

	require.NotEmpty(t, s.TopDomains)
	assert.Equal(t, NameCount{Name: "doubleclick.net", Count: 2}, s.TopDomains[0])

	require.NotEmpty(t, s.TopCategories)
	assert.Equal(t, "ads", s.TopCategories[0].Name)

	assert.Equal(t, 3, s.DeviceActivity["Dad-Laptop"])
	assert.Equal(t, 1, s.DeviceActivity["Kid-Tablet"])
}

func TestSummarize_TopNCapsAtTen(t *testing.T) {
	var records []ClassifiedRecord
	ts := time.Now()
	for i := 0; i < 15; i++ {
		records = append(records, ClassifiedRecord{
			Record:   querylog.Record{Domain: string(rune('a'+i)) + ".example", Status: 2},
			Time:     ts,
			Device:   "dev",
			Category: category.Uncategorized,
		})
	}
	s := Summarize(records)
	assert.Len(t, s.TopDomains, 10)
}

func TestSummarize_DeterministicTieBreak(t *testing.T) {
	ts := time.Now()
	mk := func(domain string) ClassifiedRecord {
		return ClassifiedRecord{
			Record:   querylog.Record{Domain: domain, Status: 2},
			Time:     ts,
			Device:   "dev",
			Category: category.Uncategorized,
		}
	}
	s := Summarize([]ClassifiedRecord{mk("b.example"), mk("a.example")})
	require.Len(t, s.TopDomains, 2)
	assert.Equal(t, "a.example", s.TopDomains[0].Name, "equal counts rank by name")
}
