// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides the leveled key-value logger used throughout
// dnswatch. Output goes to stderr; when a log file is configured the
// same records are teed into it.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction.
type Config struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// File, when non-empty, receives a copy of all log output
	// (appended, created if missing).
	File string
}

// DefaultConfig returns the standard logger configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// Logger is a thin wrapper over slog carrying an optional file handle.
type Logger struct {
	s *slog.Logger
	f *os.File
}

// New builds a Logger from cfg. A file that cannot be opened is
// reported on stderr and skipped rather than failing construction.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stderr
	var f *os.File

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Warn("cannot open log file, logging to stderr only", "file", cfg.File, "error", err)
		} else {
			f = file
			w = io.MultiWriter(os.Stderr, file)
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return &Logger{s: slog.New(handler), f: f}
}

// ParseLevel converts a level string to a slog.Level. Unknown strings
// default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger that includes the given key-value pairs on
// every record.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{s: l.s.With(kv...), f: l.f}
}

func (l *Logger) Debug(msg string, kv ...any) { l.s.Debug(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.s.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Error(msg, kv...) }

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}
