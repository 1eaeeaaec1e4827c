// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package devices maps client network addresses to human-readable
// device names for query attribution.
package devices

import (
	"encoding/json"
	"os"
	"path/filepath"

	"grimm.is/dnswatch/internal/logging"
)

// Directory resolves client addresses to display names. It is loaded
// once at startup and read-only afterwards; editing the mapping is an
// external configuration concern.
type Directory struct {
	names map[string]string
}

// Load reads the device mapping file. When the file is absent the
// defaults are persisted as the initial file and used in memory; a file
// that exists but cannot be parsed also falls back to the defaults (but
// is left alone on disk).
func Load(path string, defaults map[string]string, logger *logging.Logger) *Directory {
	data, err := os.ReadFile(path)
	if err == nil {
		var m map[string]string
		if jsonErr := json.Unmarshal(data, &m); jsonErr == nil {
			logger.Info("loaded device mappings", "path", path, "devices", len(m))
			return &Directory{names: m}
		}
		logger.Warn("cannot parse device map, using defaults", "path", path)
		return &Directory{names: copyMap(defaults)}
	}
	if !os.IsNotExist(err) {
		logger.Warn("cannot read device map, using defaults", "path", path, "error", err)
		return &Directory{names: copyMap(defaults)}
	}

	// First run: write the defaults so operators have a file to edit.
	if err := writeDefaults(path, defaults); err != nil {
		logger.Error("cannot create default device map", "path", path, "error", err)
	} else {
		logger.Info("created default device map", "path", path)
	}
	return &Directory{names: copyMap(defaults)}
}

func writeDefaults(path string, defaults map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Resolve returns the display name for a client address, falling back
// to the raw address when unmapped.
func (d *Directory) Resolve(addr string) string {
	if name, ok := d.names[addr]; ok {
		return name
	}
	return addr
}

// Len returns the number of mapped devices.
func (d *Directory) Len() int {
	return len(d.names)
}
