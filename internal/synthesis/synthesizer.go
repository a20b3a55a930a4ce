// Package synthesis turns segment text into audio files through a
// speech-synthesis provider.
package synthesis

import "context"

// VoiceInfo describes one voice the provider can speak with.
type VoiceInfo struct {
	ID       string `json:"id"`
	Locale   string `json:"locale"`
	Gender   string `json:"gender"`
	Friendly string `json:"friendly_name"`
}

// Synthesizer produces audio artifacts from text.
type Synthesizer interface {
	// ListVoices enumerates the voices the provider offers.
	ListVoices(ctx context.Context) ([]VoiceInfo, error)
	// Synthesize speaks text with the given voice and writes the audio to
	// destPath, creating parent directories as needed.
	Synthesize(ctx context.Context, text, voiceID, destPath string) error
}
