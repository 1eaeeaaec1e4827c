// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"grimm.is/dnswatch/internal/fetch"
	"grimm.is/dnswatch/internal/metrics"
	"grimm.is/dnswatch/internal/updater"
)

// runUpdate refreshes every category list. Exit status is 0 when at
// least one category succeeded; a run where every category failed is
// the only hard failure.
func runUpdate(args []string) int {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Close()

	reg := metrics.NewRegistry()
	fetcher := fetch.New(cfg.Fetch.MaxAttempts, cfg.Fetch.Timeout(), logger, reg)
	u := updater.New(fetcher, cfg.Categories, cfg.DomainsDir(), logger, reg)

	res, err := u.UpdateAll(context.Background())
	if err != nil {
		return 1
	}

	fmt.Printf("updated %d/%d categories\n", res.SuccessfulUpdates, res.TotalCategories)
	return 0
}
