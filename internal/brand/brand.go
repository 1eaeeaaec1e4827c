// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package brand centralizes the project naming so it appears consistently
// in file names, user agents and log output.
package brand

const (
	// Name is the display name of the project.
	Name = "DNSWatch"

	// LowerName is the lowercase name used for files and directories.
	LowerName = "dnswatch"

	// BinaryName is the name of the installed binary.
	BinaryName = "dnswatch"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "dnswatch.yaml"
)
