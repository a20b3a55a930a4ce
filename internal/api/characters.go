package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	characters, err := s.store.CharactersByDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list characters")
		return
	}
	views := make([]characterView, 0, len(characters))
	for _, character := range characters {
		views = append(views, characterToView(character))
	}
	writeJSON(w, http.StatusOK, views)
}

// characterPatch carries the editable character fields. Absent fields keep
// their current values; voice_id may be set to "" to fall back to trait
// matching at generation time.
type characterPatch struct {
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	AgeCategory *string `json:"age_category"`
	Tone        *string `json:"tone"`
	Quality     *string `json:"quality"`
	Description *string `json:"description"`
	VoiceID     *string `json:"voice_id"`
}

func (s *Server) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	character, err := s.store.GetCharacter(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get character")
		return
	}
	if character == nil {
		writeError(w, http.StatusNotFound, "character not found")
		return
	}

	var patch characterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		character.Name = name
	}
	if patch.Gender != nil {
		character.Gender = strings.ToLower(strings.TrimSpace(*patch.Gender))
	}
	if patch.AgeCategory != nil {
		character.AgeCategory = strings.ToLower(strings.TrimSpace(*patch.AgeCategory))
	}
	if patch.Tone != nil {
		character.Tone = strings.ToLower(strings.TrimSpace(*patch.Tone))
	}
	if patch.Quality != nil {
		character.Quality = strings.ToLower(strings.TrimSpace(*patch.Quality))
	}
	if patch.Description != nil {
		character.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.VoiceID != nil {
		voiceID := strings.TrimSpace(*patch.VoiceID)
		if voiceID != "" {
			if _, ok := s.registry.Lookup(voiceID); !ok {
				writeError(w, http.StatusBadRequest, "unknown voice id")
				return
			}
		}
		character.VoiceID = voiceID
	}

	if err := s.store.UpdateCharacter(r.Context(), character); err != nil {
		writeError(w, http.StatusInternalServerError, "update character")
		return
	}
	writeJSON(w, http.StatusOK, characterToView(character))
}
