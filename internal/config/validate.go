package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateVoices(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.UploadDir == "" {
		return errors.New("paths.upload_dir must be set")
	}
	if c.Paths.AudioDir == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxChapters <= 0 {
		return errors.New("analysis.max_chapters must be positive")
	}
	if c.Analysis.MaxAnalyzeChars <= 0 {
		return errors.New("analysis.max_analyze_chars must be positive")
	}
	if c.Analysis.MaxRoleChars <= 0 {
		return errors.New("analysis.max_role_chars must be positive")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	switch c.Synthesis.Format {
	case "mp3", "opus", "aac", "flac", "wav":
		return nil
	default:
		return fmt.Errorf("synthesis.format: unsupported value %q", c.Synthesis.Format)
	}
}

func (c *Config) validateVoices() error {
	if _, err := language.Parse(c.Voices.Locale); err != nil {
		return fmt.Errorf("voices.locale: invalid locale %q: %w", c.Voices.Locale, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
