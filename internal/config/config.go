// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config defines the dnswatch configuration and its YAML
// loading. Values are immutable once loaded; components receive what
// they need through their constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"grimm.is/dnswatch/internal/errors"
)

// CategorySource names a content category and the ordered list of URLs
// its domain list is fetched from. The first URL that succeeds wins.
//
// The order of categories in the config is also the classification
// order: when a domain matches more than one category, the one declared
// first takes it. This replaces the original behavior of scanning
// whatever order the list files were found on disk, which was not
// stable across platforms.
type CategorySource struct {
	Name string   `yaml:"name"`
	URLs []string `yaml:"urls"`
}

// FetchConfig controls the list download behavior.
type FetchConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// RetentionConfig controls how long generated files are kept.
type RetentionConfig struct {
	LogDays    int `yaml:"log_days"`
	ReportDays int `yaml:"report_days"`
}

// Config is the complete dnswatch configuration.
type Config struct {
	// PiholeDBPath is the resolver's FTL query database. Read-only.
	PiholeDBPath string `yaml:"pihole_db_path"`

	// DataDir holds everything dnswatch writes: domain lists, reports,
	// health snapshots, logs.
	DataDir string `yaml:"data_dir"`

	Categories     []CategorySource  `yaml:"categories"`
	DefaultDevices map[string]string `yaml:"default_devices"`

	Fetch     FetchConfig     `yaml:"fetch"`
	Retention RetentionConfig `yaml:"retention"`

	// Listen is the address of the status API ("host:port").
	Listen string `yaml:"listen"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Default returns the built-in configuration. The category sources and
// device map match the shipped defaults; a config file overrides them
// wholesale, not additively.
func Default() *Config {
	return &Config{
		PiholeDBPath: "/etc/pihole/pihole-FTL.db",
		DataDir:      "/var/lib/dnswatch",
		Categories: []CategorySource{
			{Name: "social", URLs: []string{
				"https://raw.githubusercontent.com/cbuijs/shallalist/master/social.txt",
				"https://raw.githubusercontent.com/StevenBlack/hosts/master/alternates/social-only/hosts",
			}},
			{Name: "porn", URLs: []string{
				"https://raw.githubusercontent.com/cbuijs/shallalist/master/porn.txt",
				"https://raw.githubusercontent.com/StevenBlack/hosts/master/alternates/porn-only/hosts",
			}},
			{Name: "malware", URLs: []string{
				"https://raw.githubusercontent.com/cbuijs/shallalist/master/malware.txt",
				"https://raw.githubusercontent.com/StevenBlack/hosts/master/alternates/malware-only/hosts",
			}},
			{Name: "gambling", URLs: []string{
				"https://raw.githubusercontent.com/cbuijs/shallalist/master/gambling.txt",
			}},
			{Name: "ads", URLs: []string{
				"https://raw.githubusercontent.com/StevenBlack/hosts/master/alternates/adware-malware/hosts",
			}},
		},
		DefaultDevices: map[string]string{
			"192.168.1.10": "Dad-Laptop",
			"192.168.1.11": "Kid-Tablet",
			"192.168.1.12": "TV",
			"192.168.1.1":  "Router",
		},
		Fetch: FetchConfig{
			MaxAttempts:    3,
			TimeoutSeconds: 30,
		},
		Retention: RetentionConfig{
			LogDays:    30,
			ReportDays: 90,
		},
		Listen:   "127.0.0.1:8090",
		LogLevel: "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged. A missing file is an error: a
// misspelled -config flag should not silently fall back.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindValidation, "cannot read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, errors.KindValidation, "cannot parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants a config file could break.
func (c *Config) Validate() error {
	if c.PiholeDBPath == "" {
		return errors.New(errors.KindValidation, "pihole_db_path must be set")
	}
	if c.DataDir == "" {
		return errors.New(errors.KindValidation, "data_dir must be set")
	}
	if c.Fetch.MaxAttempts < 1 {
		return errors.Errorf(errors.KindValidation, "fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts)
	}
	if c.Fetch.TimeoutSeconds < 1 {
		return errors.Errorf(errors.KindValidation, "fetch.timeout_seconds must be at least 1, got %d", c.Fetch.TimeoutSeconds)
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return errors.New(errors.KindValidation, "category name must not be empty")
		}
		if seen[cat.Name] {
			return errors.Errorf(errors.KindValidation, "duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
	}
	return nil
}

// DomainsDir is where category domain lists live.
func (c *Config) DomainsDir() string {
	return filepath.Join(c.DataDir, "domains")
}

// LogsDir is where reports, health snapshots and log files live.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DevicesFile is the address-to-name device mapping file.
func (c *Config) DevicesFile() string {
	return filepath.Join(c.DataDir, "devices.json")
}

// CategoryNames returns category names in declaration order.
func (c *Config) CategoryNames() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// String renders a short description for startup logging.
func (c *Config) String() string {
	return fmt.Sprintf("db=%s data=%s categories=%d", c.PiholeDBPath, c.DataDir, len(c.Categories))
}
