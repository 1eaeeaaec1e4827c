// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// dnswatch classifies and summarizes a Pi-hole resolver's query log.
//
// Subcommands:
//
//	update    refresh the category domain lists from their sources
//	summary   aggregate and print query statistics for a time window
//	report    write the daily report and prune aged files
//	health    write and print a system health snapshot
//	serve     run the read-only status API
//
// Periodic execution is the job of an external scheduler (cron,
// systemd timers); every subcommand is a one-shot operation except
// serve.
package main

import (
	"fmt"
	"os"

	"grimm.is/dnswatch/internal/brand"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "update":
		code = runUpdate(os.Args[2:])
	case "summary":
		code = runSummary(os.Args[2:])
	case "report":
		code = runReport(os.Args[2:])
	case "health":
		code = runHealth(os.Args[2:])
	case "serve":
		code = runServe(os.Args[2:])
	case "version":
		fmt.Println(brand.Name)
		code = 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  update    refresh category domain lists
  summary   print aggregated query statistics
  report    write the daily report and prune aged files
  health    write a health snapshot
  serve     run the status API
  version   print the project name
`, brand.BinaryName)
}

// setup loads the config and builds the logger shared by all
// subcommands.
func setup(configPath string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	return cfg, logger, nil
}
