package testsupport

import (
	"path/filepath"
	"testing"

	"fablecast/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Analysis.APIKey = "test"
	cfgVal.Synthesis.APIKey = "test"
	cfgVal.Paths.UploadDir = filepath.Join(base, "uploads")
	cfgVal.Paths.CoverDir = filepath.Join(base, "covers")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAnalysisBaseURL points the analysis provider at a test server.
func WithAnalysisBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.BaseURL = url
	}
}

// WithSynthesisBaseURL points the synthesis provider at a test server.
func WithSynthesisBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Synthesis.BaseURL = url
	}
}

// WithLocale overrides the voice-selection locale on the test config.
func WithLocale(locale string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Voices.Locale = locale
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.UploadDir)
}
