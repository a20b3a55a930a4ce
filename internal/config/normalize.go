package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeSynthesis()
	c.normalizeVoices()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.UploadDir, err = expandPath(c.Paths.UploadDir); err != nil {
		return fmt.Errorf("paths.upload_dir: %w", err)
	}
	if c.Paths.CoverDir, err = expandPath(c.Paths.CoverDir); err != nil {
		return fmt.Errorf("paths.cover_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.APIKey == "" {
		if value, ok := os.LookupEnv("FABLECAST_ANALYSIS_API_KEY"); ok {
			c.Analysis.APIKey = value
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Analysis.APIKey = value
		}
	}
	c.Analysis.BaseURL = strings.TrimSpace(c.Analysis.BaseURL)
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = defaultAnalysisBaseURL
	}
	c.Analysis.Model = strings.TrimSpace(c.Analysis.Model)
	if c.Analysis.Model == "" {
		c.Analysis.Model = defaultAnalysisModel
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		c.Analysis.TimeoutSeconds = defaultAnalysisTimeoutSeconds
	}
	if c.Analysis.MaxChapters <= 0 {
		c.Analysis.MaxChapters = defaultAnalysisMaxChapters
	}
	if c.Analysis.MaxAnalyzeChars <= 0 {
		c.Analysis.MaxAnalyzeChars = defaultMaxAnalyzeChars
	}
	if c.Analysis.MaxRoleChars <= 0 {
		c.Analysis.MaxRoleChars = defaultMaxRoleChars
	}
}

func (c *Config) normalizeSynthesis() {
	if c.Synthesis.APIKey == "" {
		if value, ok := os.LookupEnv("FABLECAST_SYNTHESIS_API_KEY"); ok {
			c.Synthesis.APIKey = value
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Synthesis.APIKey = value
		}
	}
	c.Synthesis.BaseURL = strings.TrimSpace(c.Synthesis.BaseURL)
	if c.Synthesis.BaseURL == "" {
		c.Synthesis.BaseURL = defaultSynthesisBaseURL
	}
	c.Synthesis.Model = strings.TrimSpace(c.Synthesis.Model)
	if c.Synthesis.Model == "" {
		c.Synthesis.Model = defaultSynthesisModel
	}
	c.Synthesis.Format = strings.ToLower(strings.TrimSpace(c.Synthesis.Format))
	if c.Synthesis.Format == "" {
		c.Synthesis.Format = defaultSynthesisFormat
	}
	if c.Synthesis.Speed <= 0 {
		c.Synthesis.Speed = defaultSynthesisSpeed
	}
	if c.Synthesis.TimeoutSeconds <= 0 {
		c.Synthesis.TimeoutSeconds = defaultSynthesisTimeoutSeconds
	}
}

func (c *Config) normalizeVoices() {
	c.Voices.Locale = strings.TrimSpace(c.Voices.Locale)
	if c.Voices.Locale == "" {
		c.Voices.Locale = defaultVoiceLocale
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.StageTimeoutSeconds <= 0 {
		c.Workflow.StageTimeoutSeconds = defaultStageTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
