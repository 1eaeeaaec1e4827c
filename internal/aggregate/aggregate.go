// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package aggregate turns raw query log records into classified,
// device-attributed summary statistics over a time window.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"grimm.is/dnswatch/internal/category"
	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/devices"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
	"grimm.is/dnswatch/internal/querylog"
)

// topN is the ranking depth for top-domain and top-category lists.
const topN = 10

// QueryScanner is the read side of the resolver's query log.
type QueryScanner interface {
	Scan(from, to time.Time) ([]querylog.Record, error)
}

// Aggregator owns a category store and device directory for its
// lifetime and classifies batches of query records against them.
// Reloading fresh category lists means constructing a new Aggregator.
type Aggregator struct {
	store      QueryScanner // nil when the query log could not be opened
	categories *category.Store
	devices    *devices.Directory
	logger     *logging.Logger
	metrics    *metrics.Registry
}

// New creates an Aggregator. store may be nil when the query log is
// unavailable; every aggregation then yields an empty summary.
func New(store QueryScanner, categories *category.Store, dir *devices.Directory, logger *logging.Logger, reg *metrics.Registry) *Aggregator {
	return &Aggregator{
		store:      store,
		categories: categories,
		devices:    dir,
		logger:     logger,
		metrics:    reg,
	}
}

// Parse pulls and classifies all records from the last `days` days. The
// window starts at local midnight of (now - days) and ends now, so
// "1 day" covers yesterday's start of day through the present.
// deviceFilter, when non-empty, keeps only records whose resolved
// device name contains it case-insensitively.
//
// Store failures and empty windows both produce an empty slice; absence
// of resolver data is an expected condition, never an error to the
// caller.
func (a *Aggregator) Parse(days int, deviceFilter string) []ClassifiedRecord {
	if a.store == nil {
		a.logger.Warn("query log unavailable, returning no records")
		return nil
	}

	now := clock.Now()
	start := now.AddDate(0, 0, -days)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	records, err := a.store.Scan(start, now)
	if err != nil {
		a.logger.Error("query log scan failed", "error", err)
		return nil
	}
	if len(records) == 0 {
		a.logger.Warn("no query data found", "days", days)
		return nil
	}

	filter := strings.ToLower(deviceFilter)
	classified := make([]ClassifiedRecord, 0, len(records))
	for _, rec := range records {
		c := a.classify(rec)
		if filter != "" && !strings.Contains(strings.ToLower(c.Device), filter) {
			continue
		}
		classified = append(classified, c)
	}

	a.logger.Info("parsed query log", "records", len(classified), "days", days)
	return classified
}

func (a *Aggregator) classify(rec querylog.Record) ClassifiedRecord {
	ts := time.Unix(rec.Timestamp, 0)
	return ClassifiedRecord{
		Record:            rec,
		Time:              ts,
		Device:            a.devices.Resolve(rec.Client),
		Category:          a.categories.Categorize(rec.Domain),
		Hour:              ts.Hour(),
		Date:              ts.Format("2006-01-02"),
		StatusDescription: querylog.StatusDescription(rec.Status),
	}
}

// Aggregate is the full pipeline: Parse then Summarize.
func (a *Aggregator) Aggregate(days int, deviceFilter string) *Summary {
	s := Summarize(a.Parse(days, deviceFilter))
	a.metrics.ObserveAggregation(s.TotalQueries, s.BlockedQueries)
	return s
}

// Summarize computes the aggregate statistics over a classified batch.
// An empty batch yields a zero-valued summary, not an error.
func Summarize(records []ClassifiedRecord) *Summary {
	s := &Summary{
		TopCategories:  []NameCount{},
		TopDomains:     []NameCount{},
		DeviceActivity: make(map[string]int),
	}
	if len(records) == 0 {
		return s
	}

	domainCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	minTime, maxTime := records[0].Time, records[0].Time

	for _, rec := range records {
		s.TotalQueries++
		domainCounts[rec.Domain]++
		categoryCounts[rec.Category]++
		s.DeviceActivity[rec.Device]++
		if rec.Blocked() {
			s.BlockedQueries++
		}
		if rec.Time.Before(minTime) {
			minTime = rec.Time
		}
		if rec.Time.After(maxTime) {
			maxTime = rec.Time
		}
	}

	s.UniqueDomains = len(domainCounts)
	s.UniqueDevices = len(s.DeviceActivity)
	s.DateRange = &DateRange{Start: minTime, End: maxTime}
	s.TopCategories = topCounts(categoryCounts, topN)
	s.TopDomains = topCounts(domainCounts, topN)
	s.BlockedPercentage = float64(s.BlockedQueries) / float64(s.TotalQueries) * 100

	return s
}

// topCounts ranks a count map by count descending, name ascending on
// ties so output is deterministic.
func topCounts(counts map[string]int, n int) []NameCount {
	ranked := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, NameCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
