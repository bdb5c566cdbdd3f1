package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/varalys/fic/internal/logging"
)

// FileConfig is the on-disk YAML configuration shape for fic.
type FileConfig struct {
	Baseline        *string `yaml:"baseline,omitempty"`
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`
	Hidden          *bool   `yaml:"hidden,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	AuditLog        *string `yaml:"audit_log,omitempty"`
	IgnoreFile      *string `yaml:"ignore_file,omitempty"`

	Log *LogConfig `yaml:"log,omitempty"`
}

// LogConfig mirrors logging.Config with optional fields.
type LogConfig struct {
	Level      *string `yaml:"level,omitempty"`
	Format     *string `yaml:"format,omitempty"`
	File       *string `yaml:"file,omitempty"`
	MaxSizeMB  *int    `yaml:"max_size_mb,omitempty"`
	MaxFiles   *int    `yaml:"max_files,omitempty"`
	MaxAgeDays *int    `yaml:"max_age_days,omitempty"`
}

// LocalNames lists the file names searched by LoadLocal, in order.
var LocalNames = []string{".fic.yml", ".fic.yaml", "fic.yml", "fic.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FindLocal returns the first of LocalNames present in dir, or "".
func FindLocal(dir string) string {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLocal searches for a local config file in dir. When none exists the
// error wraps os.ErrNotExist.
func LoadLocal(dir string) (FileConfig, error) {
	p := FindLocal(dir)
	if p == "" {
		return FileConfig{}, fmt.Errorf("no local config in %s: %w", dir, os.ErrNotExist)
	}
	return LoadFile(p)
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config, or "" if neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "fic", "config.yml")
}

// LoadGlobal loads the global config file. When it does not exist the error
// wraps os.ErrNotExist.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, fmt.Errorf("no config dir: %w", os.ErrNotExist)
	}
	if _, err := os.Stat(p); err != nil {
		return cfg, fmt.Errorf("no global config: %w", os.ErrNotExist)
	}
	return LoadFile(p)
}

// WithoutScanPolicy returns fc without the keys that decide what a check
// trusts: the baseline and audit locations and every file filter.
func (fc FileConfig) WithoutScanPolicy() FileConfig {
	fc.Baseline = nil
	fc.AuditLog = nil
	fc.IgnoreFile = nil
	fc.Include = nil
	fc.Exclude = nil
	fc.DefaultExcludes = nil
	fc.Hidden = nil
	return fc
}

// HasScanPolicy reports whether fc sets any key WithoutScanPolicy drops.
func (fc FileConfig) HasScanPolicy() bool {
	return fc.Baseline != nil || fc.AuditLog != nil || fc.IgnoreFile != nil ||
		fc.Include != nil || fc.Exclude != nil || fc.DefaultExcludes != nil || fc.Hidden != nil
}

// Merge returns fc with unset fields filled from lower. fc wins.
func (fc FileConfig) Merge(lower FileConfig) FileConfig {
	out := fc
	if out.Baseline == nil {
		out.Baseline = lower.Baseline
	}
	if out.Include == nil {
		out.Include = lower.Include
	}
	if out.Exclude == nil {
		out.Exclude = lower.Exclude
	}
	if out.Threads == nil {
		out.Threads = lower.Threads
	}
	if out.DefaultExcludes == nil {
		out.DefaultExcludes = lower.DefaultExcludes
	}
	if out.Hidden == nil {
		out.Hidden = lower.Hidden
	}
	if out.NoColor == nil {
		out.NoColor = lower.NoColor
	}
	if out.AuditLog == nil {
		out.AuditLog = lower.AuditLog
	}
	if out.IgnoreFile == nil {
		out.IgnoreFile = lower.IgnoreFile
	}
	switch {
	case out.Log == nil:
		out.Log = lower.Log
	case lower.Log != nil:
		l := *out.Log
		if l.Level == nil {
			l.Level = lower.Log.Level
		}
		if l.Format == nil {
			l.Format = lower.Log.Format
		}
		if l.File == nil {
			l.File = lower.Log.File
		}
		if l.MaxSizeMB == nil {
			l.MaxSizeMB = lower.Log.MaxSizeMB
		}
		if l.MaxFiles == nil {
			l.MaxFiles = lower.Log.MaxFiles
		}
		if l.MaxAgeDays == nil {
			l.MaxAgeDays = lower.Log.MaxAgeDays
		}
		out.Log = &l
	}
	return out
}

// Logging resolves the log section on top of logging.DefaultConfig.
func (fc FileConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if fc.Log == nil {
		return cfg
	}
	if fc.Log.Level != nil {
		cfg.Level = *fc.Log.Level
	}
	if fc.Log.Format != nil {
		cfg.Format = *fc.Log.Format
	}
	if fc.Log.File != nil {
		cfg.FilePath = *fc.Log.File
	}
	if fc.Log.MaxSizeMB != nil {
		cfg.FileMaxSizeMB = *fc.Log.MaxSizeMB
	}
	if fc.Log.MaxFiles != nil {
		cfg.FileMaxFiles = *fc.Log.MaxFiles
	}
	if fc.Log.MaxAgeDays != nil {
		cfg.FileMaxAgeDays = *fc.Log.MaxAgeDays
	}
	return cfg
}
