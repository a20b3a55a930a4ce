package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fablecast/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, path, exists, err := config.Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, got exists for %s", path)
	}
	if cfg.Analysis.MaxChapters != 3 {
		t.Fatalf("expected default max_chapters 3, got %d", cfg.Analysis.MaxChapters)
	}
	if cfg.Voices.Locale != "fr-FR" {
		t.Fatalf("expected default locale fr-FR, got %q", cfg.Voices.Locale)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`upload_dir = "` + filepath.Join(dir, "uploads") + `"`,
		`audio_dir = "` + filepath.Join(dir, "audio") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[analysis]",
		"timeout_seconds = 5",
		"max_analyze_chars = 2000",
		"[logging]",
		`format = "JSON"`,
		`level = "DEBUG"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Analysis.TimeoutSeconds != 5 {
		t.Fatalf("expected timeout 5, got %d", cfg.Analysis.TimeoutSeconds)
	}
	if cfg.Analysis.MaxAnalyzeChars != 2000 {
		t.Fatalf("expected analyze cap 2000, got %d", cfg.Analysis.MaxAnalyzeChars)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}

	cfg = config.Default()
	cfg.Synthesis.Format = "ogg-vorbis!"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported synthesis format")
	}

	cfg = config.Default()
	cfg.Voices.Locale = "not a locale"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.UploadDir = filepath.Join(dir, "uploads")
	cfg.Paths.CoverDir = filepath.Join(dir, "covers")
	cfg.Paths.AudioDir = filepath.Join(dir, "audio")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.UploadDir, cfg.Paths.CoverDir, cfg.Paths.AudioDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s (err=%v)", p, err)
		}
	}
}
