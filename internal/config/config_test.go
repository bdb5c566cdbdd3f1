package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "fic.yaml", "threads: 4\nbaseline: /var/lib/fic/b.json\nhidden: true\nexclude: \"*.log\"\nlog:\n  level: debug\n  file: /tmp/fic.log\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.Baseline == nil || *cfg.Baseline != "/var/lib/fic/b.json" {
		t.Fatalf("expected baseline path, got %#v", cfg.Baseline)
	}
	if cfg.Hidden == nil || !*cfg.Hidden {
		t.Fatalf("expected hidden=true")
	}
	if cfg.Exclude == nil || *cfg.Exclude != "*.log" {
		t.Fatalf("expected exclude=*.log, got %#v", cfg.Exclude)
	}
	lc := cfg.Logging()
	if lc.Level != "debug" || lc.FilePath != "/tmp/fic.log" || lc.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", lc)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "fic.yaml", "threads: [oops\n")
	_, err := LoadFile(p)
	if err == nil {
		t.Fatal("expected yaml error")
	}
	if !strings.Contains(err.Error(), p) || errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error should name %s and not look like a missing file: %v", p, err)
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "fic.yaml", "threads: 1\n")
	writeTemp(t, dir, ".fic.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .fic.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error when no local config exists, got %v", err)
	}
	if p := FindLocal(dir); p != "" {
		t.Fatalf("FindLocal=%q want empty", p)
	}
}

func TestFindLocal(t *testing.T) {
	dir := t.TempDir()
	want := writeTemp(t, dir, "fic.yml", "threads: 1\n")
	if got := FindLocal(dir); got != want {
		t.Fatalf("FindLocal=%q want %q", got, want)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "fic")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestMerge_HigherWins(t *testing.T) {
	hiThreads, loThreads := 2, 8
	lvl, file, format := "debug", "/tmp/x.log", "json"
	base := "/lo/baseline.json"
	hi := FileConfig{Threads: &hiThreads, Log: &LogConfig{Level: &lvl}}
	lo := FileConfig{Threads: &loThreads, Baseline: &base, Log: &LogConfig{File: &file, Format: &format}}

	got := hi.Merge(lo)
	if *got.Threads != 2 {
		t.Fatalf("threads=%d", *got.Threads)
	}
	if got.Baseline == nil || *got.Baseline != base {
		t.Fatalf("baseline not inherited")
	}
	lc := got.Logging()
	if lc.Level != "debug" || lc.FilePath != file || lc.Format != "json" {
		t.Fatalf("unexpected merged logging: %+v", lc)
	}
	if hi.Log.File != nil {
		t.Fatalf("merge must not mutate receiver")
	}
}

func TestWithoutScanPolicy(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, ".fic.yml", "baseline: /tmp/fake.json\naudit_log: /tmp/a.jsonl\nignore_file: /tmp/.ficignore\ninclude: \"*.go\"\nexclude: \"*.sh\"\nhidden: true\ndefault_excludes: false\nthreads: 3\nno_color: true\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IgnoreFile == nil || *cfg.IgnoreFile != "/tmp/.ficignore" {
		t.Fatalf("ignore_file not parsed: %#v", cfg.IgnoreFile)
	}
	if !cfg.HasScanPolicy() {
		t.Fatal("expected scan policy keys")
	}
	got := cfg.WithoutScanPolicy()
	if got.HasScanPolicy() {
		t.Fatalf("scan policy keys survived: %+v", got)
	}
	if got.Threads == nil || *got.Threads != 3 || got.NoColor == nil || !*got.NoColor {
		t.Fatalf("presentation keys must survive: %+v", got)
	}
	if cfg.Baseline == nil {
		t.Fatal("WithoutScanPolicy must not mutate the receiver")
	}
}
