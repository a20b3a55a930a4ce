package config

const (
	defaultUploadDir = "~/.local/share/fablecast/uploads"
	defaultCoverDir  = "~/.local/share/fablecast/covers"
	defaultAudioDir  = "~/.local/share/fablecast/audio"
	defaultLogDir    = "~/.local/share/fablecast/logs"
	defaultAPIBind   = "127.0.0.1:7530"

	defaultAnalysisBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultAnalysisModel          = "google/gemini-3-flash-preview"
	defaultAnalysisReferer        = "https://github.com/fablecast/fablecast"
	defaultAnalysisTitle          = "Fablecast Analysis"
	defaultAnalysisTimeoutSeconds = 60
	defaultAnalysisMaxChapters    = 3
	defaultMaxAnalyzeChars        = 15000
	defaultMaxRoleChars           = 10000

	defaultSynthesisBaseURL        = "https://api.openai.com/v1"
	defaultSynthesisModel          = "tts-1"
	defaultSynthesisFormat         = "mp3"
	defaultSynthesisSpeed          = 1.0
	defaultSynthesisTimeoutSeconds = 90

	defaultVoiceLocale = "fr-FR"

	defaultStageTimeoutSeconds = 600

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			CoverDir:  defaultCoverDir,
			AudioDir:  defaultAudioDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Analysis: Analysis{
			BaseURL:         defaultAnalysisBaseURL,
			Model:           defaultAnalysisModel,
			Referer:         defaultAnalysisReferer,
			Title:           defaultAnalysisTitle,
			TimeoutSeconds:  defaultAnalysisTimeoutSeconds,
			MaxChapters:     defaultAnalysisMaxChapters,
			MaxAnalyzeChars: defaultMaxAnalyzeChars,
			MaxRoleChars:    defaultMaxRoleChars,
		},
		Synthesis: Synthesis{
			BaseURL:        defaultSynthesisBaseURL,
			Model:          defaultSynthesisModel,
			Format:         defaultSynthesisFormat,
			Speed:          defaultSynthesisSpeed,
			TimeoutSeconds: defaultSynthesisTimeoutSeconds,
		},
		Voices: Voices{
			Locale: defaultVoiceLocale,
		},
		Workflow: Workflow{
			StageTimeoutSeconds: defaultStageTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
