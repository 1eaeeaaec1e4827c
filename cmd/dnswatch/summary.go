// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"grimm.is/dnswatch/internal/aggregate"
	"grimm.is/dnswatch/internal/category"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/devices"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
	"grimm.is/dnswatch/internal/querylog"
)

// runSummary aggregates the query log and prints the result. Exits 1
// when the window holds no data so schedulers notice silent resolvers.
func runSummary(args []string) int {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	days := fs.Int("days", 1, "number of days to aggregate")
	device := fs.String("device", "", "case-insensitive device name filter")
	asText := fs.Bool("text", false, "print a human-readable report instead of JSON")
	fs.Parse(args)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Close()

	agg := buildAggregator(cfg, logger, nil)
	summary := agg.Aggregate(*days, *device)
	if summary.Empty() {
		logger.Error("no data to process", "days", *days)
		return 1
	}

	if *asText {
		printText(summary)
	} else {
		data, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(data))
	}
	return 0
}

// buildAggregator wires the query log, category store and device
// directory. A missing or mismatched query log is logged and left nil;
// the aggregator degrades to empty summaries.
func buildAggregator(cfg *config.Config, logger *logging.Logger, reg *metrics.Registry) *aggregate.Aggregator {
	var scanner aggregate.QueryScanner
	if store, err := querylog.Open(cfg.PiholeDBPath); err != nil {
		logger.Warn("query log unavailable", "path", cfg.PiholeDBPath, "error", err)
	} else {
		scanner = store
	}

	cats := category.LoadStore(cfg.DomainsDir(), cfg.CategoryNames(), logger)
	dir := devices.Load(cfg.DevicesFile(), cfg.DefaultDevices, logger)
	return aggregate.New(scanner, cats, dir, logger, reg)
}

func printText(s *aggregate.Summary) {
	fmt.Printf("Total queries:   %d\n", s.TotalQueries)
	fmt.Printf("Blocked:         %d (%.1f%%)\n", s.BlockedQueries, s.BlockedPercentage)
	fmt.Printf("Unique domains:  %d\n", s.UniqueDomains)
	fmt.Printf("Unique devices:  %d\n", s.UniqueDevices)
	if s.DateRange != nil {
		fmt.Printf("Range:           %s - %s\n",
			s.DateRange.Start.Format("2006-01-02 15:04:05"),
			s.DateRange.End.Format("2006-01-02 15:04:05"))
	}

	fmt.Println("\nTop domains:")
	for _, d := range s.TopDomains {
		fmt.Printf("  %7d  %s\n", d.Count, d.Name)
	}
	fmt.Println("\nTop categories:")
	for _, c := range s.TopCategories {
		fmt.Printf("  %7d  %s\n", c.Count, c.Name)
	}
	fmt.Println("\nDevice activity:")
	for device, count := range s.DeviceActivity {
		fmt.Printf("  %7d  %s\n", count, device)
	}
}
