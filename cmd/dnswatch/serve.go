// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"grimm.is/dnswatch/internal/api"
	"grimm.is/dnswatch/internal/health"
	"grimm.is/dnswatch/internal/metrics"
)

// runServe runs the status API until SIGINT/SIGTERM.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Close()

	reg := metrics.NewRegistry()
	agg := buildAggregator(cfg, logger, reg)
	checker := health.NewChecker(cfg, logger)
	srv := api.NewServer(cfg, agg, checker, logger, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
		logger.Error("status API failed", "error", err)
		return 1
	}
	logger.Info("status API stopped")
	return 0
}
