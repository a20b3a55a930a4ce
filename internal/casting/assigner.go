// Package casting converts provider role assignments into concrete segment
// plans and resolves the voice each segment is spoken with.
package casting

import (
	"log/slog"
	"strings"

	"fablecast/internal/analysis"
	"fablecast/internal/library"
	"fablecast/internal/logging"
)

// Normalize turns provider role lines into a segment plan against the
// document roster.
//
// Entries missing both text and speaker are dropped with a warning. Speaker
// names match the roster case-insensitively and exactly; the literal
// "narrator" or an unmatched name maps to the narrator sentinel. No fuzzy
// matching. If nothing survives, the plan collapses to a single narrator
// segment spanning the full chapter text, so a chapter never ends up with
// zero segments.
func Normalize(logger *slog.Logger, lines []analysis.RoleLine, roster []*library.Character, fullText string) []library.NewSegment {
	if logger == nil {
		logger = logging.NewNop()
	}

	byName := make(map[string]int64, len(roster))
	for _, character := range roster {
		byName[strings.ToLower(strings.TrimSpace(character.Name))] = character.ID
	}

	var plan []library.NewSegment
	for i, line := range lines {
		text := strings.TrimSpace(line.Text)
		speakerName := strings.TrimSpace(line.Speaker)
		if text == "" && speakerName == "" {
			logger.Warn("dropping role line with no text and no speaker", logging.Int("index", i))
			continue
		}
		plan = append(plan, library.NewSegment{
			Body:    text,
			Speaker: matchSpeaker(speakerName, byName),
		})
	}

	if len(plan) == 0 {
		logger.Warn("no usable role lines, falling back to full-text narrator segment")
		plan = []library.NewSegment{{Body: fullText, Speaker: library.Narrator()}}
	}
	return plan
}

func matchSpeaker(name string, byName map[string]int64) library.Speaker {
	lowered := strings.ToLower(name)
	if lowered == "" || lowered == strings.ToLower(library.NarratorName) {
		return library.Narrator()
	}
	if id, ok := byName[lowered]; ok {
		return library.CharacterSpeaker(id)
	}
	return library.Narrator()
}
