package api

import (
	"net/http"

	"fablecast/internal/logging"
	"fablecast/internal/synthesis"
)

type voicesResponse struct {
	Source string                `json:"source"`
	Voices []synthesis.VoiceInfo `json:"voices"`
}

// handleListVoices asks the synthesis provider for its voices and falls back
// to the built-in registry when the provider is unreachable, so casting stays
// usable offline.
func (s *Server) handleListVoices(w http.ResponseWriter, r *http.Request) {
	if s.synth != nil {
		voices, err := s.synth.ListVoices(r.Context())
		if err == nil && len(voices) > 0 {
			writeJSON(w, http.StatusOK, voicesResponse{Source: "provider", Voices: voices})
			return
		}
		if err != nil {
			s.logger.Warn("provider voice listing failed", logging.Error(err))
		}
	}

	catalog := s.registry.Voices()
	voices := make([]synthesis.VoiceInfo, 0, len(catalog))
	for _, v := range catalog {
		voices = append(voices, synthesis.VoiceInfo{ID: v.ID, Locale: v.Locale, Gender: v.Gender})
	}
	writeJSON(w, http.StatusOK, voicesResponse{Source: "registry", Voices: voices})
}
