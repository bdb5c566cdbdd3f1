// Package logging builds the slog logger used by the CLI and the stores.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the desired logging configuration.
type Config struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	FilePath       string `yaml:"file"`
	FileMaxSizeMB  int    `yaml:"max_size_mb"`
	FileMaxFiles   int    `yaml:"max_files"`
	FileMaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns warn-level text logging to the console only.
func DefaultConfig() Config {
	return Config{
		Level:          "warn",
		Format:         "text",
		FileMaxSizeMB:  10,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

// New returns a logger writing to console and, when cfg.FilePath is set, to a
// rotating log file. The returned closer is nil when no file is open.
func New(cfg Config, console io.Writer) (*slog.Logger, io.Closer) {
	w, closer := buildWriter(cfg, console)
	return slog.New(buildHandler(w, parseLevel(cfg.Level), cfg.Format)), closer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildWriter(cfg Config, console io.Writer) (io.Writer, io.Closer) {
	if cfg.FilePath == "" {
		return console, nil
	}
	def := DefaultConfig()
	maxSize := cfg.FileMaxSizeMB
	if maxSize <= 0 {
		maxSize = def.FileMaxSizeMB
	}
	maxFiles := cfg.FileMaxFiles
	if maxFiles <= 0 {
		maxFiles = def.FileMaxFiles
	}
	maxAge := cfg.FileMaxAgeDays
	if maxAge <= 0 {
		maxAge = def.FileMaxAgeDays
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    maxSize,
		MaxBackups: maxFiles,
		MaxAge:     maxAge,
	}
	return io.MultiWriter(console, lj), lj
}

func buildHandler(w io.Writer, level slog.Leveler, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string to slog.Level, defaulting to Warn.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ValidLevel returns true if s is a recognized log level.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ValidFormat returns true if s is a recognized log format.
func ValidFormat(s string) bool {
	return s == "text" || s == "json"
}

// Validate checks level and format names.
func (c Config) Validate() error {
	if c.Level != "" && !ValidLevel(c.Level) {
		return fmt.Errorf("invalid log level %q (want debug|info|warn|error)", c.Level)
	}
	if c.Format != "" && !ValidFormat(c.Format) {
		return fmt.Errorf("invalid log format %q (want text|json)", c.Format)
	}
	return nil
}
