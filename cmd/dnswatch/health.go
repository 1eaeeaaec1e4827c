// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"grimm.is/dnswatch/internal/health"
)

// runHealth gathers a health snapshot, persists it alongside the
// reports and prints it.
func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Close()

	checker := health.NewChecker(cfg, logger)
	st := checker.Check()

	if _, err := checker.Write(st); err != nil {
		logger.Error("cannot persist health snapshot", "error", err)
	}

	data, _ := json.MarshalIndent(st, "", "  ")
	fmt.Println(string(data))
	return 0
}
