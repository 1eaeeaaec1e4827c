// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"grimm.is/dnswatch/internal/report"
)

// runReport writes the daily summary report and prunes aged generated
// files. Meant to run once a day from a scheduler.
func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	days := fs.Int("days", 1, "number of days to aggregate")
	fs.Parse(args)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Close()

	agg := buildAggregator(cfg, logger, nil)
	summary := agg.Aggregate(*days, "")
	if summary.Empty() {
		logger.Error("no data to report", "days", *days)
		return 1
	}

	w := report.NewWriter(cfg.LogsDir(), logger)
	path, err := w.WriteDaily(summary)
	if err != nil {
		logger.Error("cannot write daily report", "error", err)
		return 1
	}
	fmt.Println(path)

	retention := time.Duration(cfg.Retention.ReportDays) * 24 * time.Hour
	if _, err := w.Cleanup(retention); err != nil {
		logger.Warn("retention cleanup failed", "error", err)
	}
	return 0
}
