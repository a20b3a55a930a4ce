package casting

import (
	"strings"

	"fablecast/internal/library"
	"fablecast/internal/voice"
)

// ResolveVoice picks the voice a segment is spoken with. Resolution order:
// the speaker's assigned voice, then a gender default, then the same two
// steps for the document narrator, then the hardcoded default. Pure function
// of the segment speaker and the character map.
func ResolveVoice(speaker library.Speaker, characters map[int64]*library.Character, narrator *library.Character) string {
	if id, ok := speaker.CharacterID(); ok {
		if character, found := characters[id]; found {
			if voiceID := characterVoice(character); voiceID != "" {
				return voiceID
			}
			return voice.DefaultVoiceID
		}
	}
	if narrator != nil {
		if voiceID := characterVoice(narrator); voiceID != "" {
			return voiceID
		}
	}
	return voice.DefaultVoiceID
}

// characterVoice applies steps (1) and (2): explicit assignment, then the
// gender default. Returns "" when neither applies.
func characterVoice(character *library.Character) string {
	if assigned := strings.TrimSpace(character.VoiceID); assigned != "" {
		return assigned
	}
	switch strings.ToLower(strings.TrimSpace(character.Gender)) {
	case "male":
		return voice.DefaultMaleVoiceID
	case "female", "neutral":
		return voice.DefaultVoiceID
	}
	return ""
}
