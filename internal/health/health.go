// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package health produces the periodic system health snapshot consumed
// by external monitoring.
package health

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/errors"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/querylog"
	"grimm.is/dnswatch/internal/updater"
)

// Status is one health snapshot.
type Status struct {
	Timestamp          time.Time  `json:"timestamp"`
	QueryLogAccessible bool       `json:"querylog_accessible"`
	DomainFilesPresent int        `json:"domain_files_present"`
	LastDomainUpdate   *time.Time `json:"last_domain_update,omitempty"`
	Disk               *DiskUsage `json:"disk_usage,omitempty"`
}

// DiskUsage describes the filesystem holding the data directory.
type DiskUsage struct {
	TotalGB      uint64  `json:"total_gb"`
	UsedGB       uint64  `json:"used_gb"`
	FreeGB       uint64  `json:"free_gb"`
	UsagePercent float64 `json:"usage_percent"`
}

// Checker assembles health snapshots.
type Checker struct {
	cfg    *config.Config
	logger *logging.Logger
}

// NewChecker creates a Checker.
func NewChecker(cfg *config.Config, logger *logging.Logger) *Checker {
	return &Checker{cfg: cfg, logger: logger}
}

// Check gathers the current health status. Individual probes failing
// degrade the snapshot rather than failing it.
func (c *Checker) Check() Status {
	st := Status{Timestamp: clock.Now()}

	if store, err := querylog.Open(c.cfg.PiholeDBPath); err == nil {
		st.QueryLogAccessible = true
		store.Close()
	} else {
		c.logger.Warn("query log not accessible", "path", c.cfg.PiholeDBPath, "error", err)
	}

	st.DomainFilesPresent = countListFiles(c.cfg.DomainsDir())

	if meta, err := updater.ReadMetadata(c.cfg.DomainsDir()); err == nil {
		t := meta.LastUpdate
		st.LastDomainUpdate = &t
	}

	st.Disk = diskUsage(c.cfg.DataDir)

	return st
}

// Write persists a snapshot as health_YYYYMMDD.json in the logs dir.
func (c *Checker) Write(st Status) (string, error) {
	dir := c.cfg.LogsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.KindPersistence, "cannot create logs directory %s", dir)
	}

	path := filepath.Join(dir, "health_"+st.Timestamp.Format("20060102")+".json")
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.KindPersistence, "cannot encode health status")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.KindPersistence, "cannot write %s", path)
	}
	return path, nil
}

func countListFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_domains.txt") {
			n++
		}
	}
	return n
}
