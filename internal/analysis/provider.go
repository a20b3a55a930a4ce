// Package analysis extracts a character roster from chapter text and assigns
// speakers to text segments using a language-model provider.
package analysis

import "context"

// RosterEntry is one character discovered by text analysis.
type RosterEntry struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	AgeCategory string `json:"age_category"`
	Tone        string `json:"tone"`
	Quality     string `json:"voice_quality"`
	Description string `json:"description"`
}

// RoleLine is one provider-proposed segment: a slice of text and the name of
// the speaker the provider believes delivers it.
type RoleLine struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
}

// Provider performs the two language-model operations the pipeline needs.
type Provider interface {
	// AnalyzeCharacters extracts the speaking roster from a text sample.
	AnalyzeCharacters(ctx context.Context, text string) ([]RosterEntry, error)
	// AssignRoles splits chapter text into speaker-tagged lines.
	AssignRoles(ctx context.Context, text string, roster []RosterEntry) ([]RoleLine, error)
}
