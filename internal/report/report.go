// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package report persists daily summary reports and cleans up aged
// files under retention policy.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grimm.is/dnswatch/internal/aggregate"
	"grimm.is/dnswatch/internal/clock"
	"grimm.is/dnswatch/internal/errors"
	"grimm.is/dnswatch/internal/logging"
)

// Writer persists reports into the logs directory.
type Writer struct {
	logsDir string
	logger  *logging.Logger
}

// NewWriter creates a Writer.
func NewWriter(logsDir string, logger *logging.Logger) *Writer {
	return &Writer{logsDir: logsDir, logger: logger}
}

// WriteDaily persists a summary as daily_report_YYYYMMDD.json and
// returns the path written.
func (w *Writer) WriteDaily(s *aggregate.Summary) (string, error) {
	if err := os.MkdirAll(w.logsDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.KindPersistence, "cannot create logs directory %s", w.logsDir)
	}

	path := filepath.Join(w.logsDir, "daily_report_"+clock.Now().Format("20060102")+".json")
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.KindPersistence, "cannot encode summary")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.KindPersistence, "cannot write %s", path)
	}

	w.logger.Info("daily report written", "path", path, "queries", s.TotalQueries)
	return path, nil
}

// cleanupPrefixes are the generated file families subject to retention.
var cleanupPrefixes = []string{"daily_report_", "health_"}

// Cleanup removes generated files older than the retention period,
// judged by modification time. Log files (*.log) are also covered.
// Returns the number of files removed.
func (w *Writer) Cleanup(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(w.logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, errors.KindPersistence, "cannot read logs directory %s", w.logsDir)
	}

	cutoff := clock.Now().Add(-retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !cleanable(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.logsDir, e.Name())
		if err := os.Remove(path); err != nil {
			w.logger.Warn("cannot remove aged file", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		w.logger.Info("cleaned up aged files", "removed", removed)
	}
	return removed, nil
}

func cleanable(name string) bool {
	if strings.HasSuffix(name, ".log") {
		return true
	}
	for _, p := range cleanupPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
