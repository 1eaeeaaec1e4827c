// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package updater refreshes the category domain lists from their
// configured sources and records the outcome of each run.
package updater

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"grimm.is/dnswatch/internal/category"
	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/errors"
	"grimm.is/dnswatch/internal/fetch"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
)

// MetadataFileName is the per-run metadata record in the domains dir.
const MetadataFileName = "update_metadata.json"

// Result summarizes one update run. Each run replaces the previous
// record; results are never merged.
type Result struct {
	RunID             string          `json:"run_id"`
	LastUpdate        time.Time       `json:"last_update"`
	Results           map[string]bool `json:"results"`
	TotalCategories   int             `json:"total_categories"`
	SuccessfulUpdates int             `json:"successful_updates"`
}

// CompleteFailure reports whether no category updated at all. This is
// the only condition the caller should treat as a hard failure.
func (r Result) CompleteFailure() bool {
	return r.SuccessfulUpdates == 0
}

// Updater drives the per-category fetch, normalize and persist cycle.
type Updater struct {
	fetcher    *fetch.Fetcher
	sources    []config.CategorySource
	domainsDir string
	logger     *logging.Logger
	metrics    *metrics.Registry
}

// New creates an Updater for the given sources writing into domainsDir.
func New(fetcher *fetch.Fetcher, sources []config.CategorySource, domainsDir string, logger *logging.Logger, reg *metrics.Registry) *Updater {
	return &Updater{
		fetcher:    fetcher,
		sources:    sources,
		domainsDir: domainsDir,
		logger:     logger,
		metrics:    reg,
	}
}

// UpdateAll refreshes every configured category independently and
// persists the run metadata. Categories that fail keep their previous
// list file. The returned error is non-nil only when every category
// failed; partial success is reported in the Result and logged as
// degraded.
func (u *Updater) UpdateAll(ctx context.Context) (Result, error) {
	u.logger.Info("starting domain list update", "categories", len(u.sources))

	if err := os.MkdirAll(u.domainsDir, 0755); err != nil {
		return Result{}, errors.Wrapf(err, errors.KindPersistence, "cannot create domains directory %s", u.domainsDir)
	}

	results := make(map[string]bool, len(u.sources))
	succeeded := 0
	for _, src := range u.sources {
		u.logger.Info("updating category", "category", src.Name)
		ok := u.updateCategory(ctx, src.Name, src.URLs)
		results[src.Name] = ok
		if ok {
			succeeded++
		}
	}

	res := Result{
		RunID:             uuid.NewString(),
		LastUpdate:        clock.Now(),
		Results:           results,
		TotalCategories:   len(u.sources),
		SuccessfulUpdates: succeeded,
	}
	u.metrics.ObserveUpdateRun(succeeded, len(u.sources)-succeeded, float64(res.LastUpdate.Unix()))

	if err := u.writeMetadata(res); err != nil {
		u.logger.Error("cannot write update metadata", "error", err)
	}

	u.logger.Info("update completed", "succeeded", succeeded, "total", len(u.sources))

	switch {
	case res.CompleteFailure():
		u.logger.Error("all category updates failed")
		return res, errors.New(errors.KindExhausted, "all category updates failed")
	case succeeded < len(u.sources):
		u.logger.Warn("partial update success", "succeeded", succeeded, "total", len(u.sources))
	}
	return res, nil
}

// updateCategory tries the category's URLs in order and adopts the
// first one that fetches and parses. An empty URL list fails. A write
// failure fails the category and leaves the existing file untouched.
func (u *Updater) updateCategory(ctx context.Context, name string, urls []string) bool {
	for _, url := range urls {
		text, err := u.fetcher.Fetch(ctx, url)
		if err != nil {
			u.logger.Error("source failed", "category", name, "url", url, "error", err)
			continue
		}

		domains := category.ParseList(strings.NewReader(text))
		path := filepath.Join(u.domainsDir, category.FileName(name))
		if err := category.WriteListFile(path, domains); err != nil {
			u.logger.Error("cannot save category list", "category", name, "path", path, "error", err)
			return false
		}

		u.logger.Info("category updated", "category", name, "url", url, "domains", len(domains))
		return true
	}

	u.logger.Error("all sources failed for category", "category", name, "sources", len(urls))
	return false
}

func (u *Updater) writeMetadata(res Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.KindPersistence, "cannot encode update metadata")
	}

	path := filepath.Join(u.domainsDir, MetadataFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.KindPersistence, "cannot write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, errors.KindPersistence, "cannot replace %s", path)
	}
	return nil
}

// ReadMetadata loads the metadata record of the most recent run.
func ReadMetadata(domainsDir string) (Result, error) {
	var res Result
	data, err := os.ReadFile(filepath.Join(domainsDir, MetadataFileName))
	if err != nil {
		return res, errors.Wrap(err, errors.KindUnavailable, "no update metadata")
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, errors.Wrap(err, errors.KindPersistence, "corrupt update metadata")
	}
	return res, nil
}
