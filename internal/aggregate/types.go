// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package aggregate

import (
	"time"

	"grimm.is/dnswatch/internal/querylog"
)

// ClassifiedRecord is a query record enriched with attribution and
// classification. It lives only for the duration of one aggregation
// pass and is never persisted.
type ClassifiedRecord struct {
	querylog.Record

	Time              time.Time
	Device            string
	Category          string
	Hour              int
	Date              string // YYYY-MM-DD
	StatusDescription string
}

// NameCount is a name with its query count, used for top-N rankings.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DateRange is the min/max record time covered by a summary.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Summary is the aggregate view over one batch of classified records.
// It is recomputed on every request and has no independent lifecycle.
type Summary struct {
	TotalQueries      int            `json:"total_queries"`
	UniqueDomains     int            `json:"unique_domains"`
	UniqueDevices     int            `json:"unique_devices"`
	DateRange         *DateRange     `json:"date_range,omitempty"`
	TopCategories     []NameCount    `json:"top_categories"`
	TopDomains        []NameCount    `json:"top_domains"`
	DeviceActivity    map[string]int `json:"device_activity"`
	BlockedQueries    int            `json:"blocked_queries"`
	BlockedPercentage float64        `json:"blocked_percentage"`
}

// Empty reports whether the summary covers no records. Callers detect
// "no data" through this rather than through errors.
func (s *Summary) Empty() bool {
	return s.TotalQueries == 0
}
