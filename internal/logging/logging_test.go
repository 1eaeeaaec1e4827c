// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"ERROR":   slog.LevelError,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_TeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.log")
	l := New(Config{Level: "info", File: path})

	l.Info("category updated", "category", "ads", "domains", 42)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "category updated") {
		t.Errorf("log file missing record: %q", string(data))
	}
	if !strings.Contains(string(data), "category=ads") {
		t.Errorf("log file missing attributes: %q", string(data))
	}
}

func TestNew_UnopenableFileFallsBack(t *testing.T) {
	l := New(Config{Level: "info", File: filepath.Join(t.TempDir(), "missing", "app.log")})
	// Must not panic; output goes to stderr only.
	l.Warn("degraded", "reason", "test")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestWith(t *testing.T) {
	l := New(DefaultConfig())
	child := l.With("component", "updater")
	child.Info("hello")
}
