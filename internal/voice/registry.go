// Package voice maps character traits to concrete synthesizer voices.
package voice

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Traits carries the optional character hints used for matching. Empty fields
// simply don't narrow the candidate set.
type Traits struct {
	Gender  string
	Age     string
	Tone    string
	Quality string
}

// Registry answers voice lookups against the curated catalog.
type Registry struct {
	voices []Voice
}

// NewRegistry returns a registry over the curated catalog.
func NewRegistry() *Registry {
	return &Registry{voices: catalog}
}

// Voices returns the full catalog.
func (r *Registry) Voices() []Voice {
	out := make([]Voice, len(r.voices))
	copy(out, r.voices)
	return out
}

// Lookup returns the metadata for a voice id, or false when unknown.
func (r *Registry) Lookup(id string) (Voice, bool) {
	for _, v := range r.voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// FindBestMatch selects a voice for the given traits and locale.
//
// Narrowing runs locale, then gender, then age; each trait filter only
// applies when it leaves at least one candidate. Tone and quality never
// filter, they only add to the score. Ties break on the lexicographically
// smallest voice id so repeated runs assign the same voices.
func (r *Registry) FindBestMatch(traits Traits, locale string) string {
	candidates := r.byLocale(locale)
	if len(candidates) == 0 {
		return DefaultVoiceID
	}

	candidates = narrow(candidates, traits.Gender, func(v Voice) string { return v.Gender })
	candidates = narrow(candidates, traits.Age, func(v Voice) string { return v.Age })

	tone := strings.ToLower(strings.TrimSpace(traits.Tone))
	quality := strings.ToLower(strings.TrimSpace(traits.Quality))

	best := candidates[0]
	bestScore := -1
	for _, v := range candidates {
		score := v.BaseRank
		if tone != "" && strings.Contains(v.Tone, tone) {
			score += 3
		}
		if quality != "" && strings.Contains(v.Quality, quality) {
			score += 3
		}
		if score > bestScore || (score == bestScore && v.ID < best.ID) {
			best = v
			bestScore = score
		}
	}
	return best.ID
}

// byLocale filters the catalog by locale: exact match first, then the
// language alone, then the French voices as the final fallback.
func (r *Registry) byLocale(locale string) []Voice {
	locale = strings.TrimSpace(locale)

	var exact []Voice
	for _, v := range r.voices {
		if strings.EqualFold(v.Locale, locale) {
			exact = append(exact, v)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	lang := baseLanguage(locale)
	if lang != "" {
		var byLang []Voice
		for _, v := range r.voices {
			if strings.HasPrefix(strings.ToLower(v.Locale), lang) {
				byLang = append(byLang, v)
			}
		}
		if len(byLang) > 0 {
			return byLang
		}
	}

	var fallback []Voice
	for _, v := range r.voices {
		if strings.HasPrefix(v.Locale, "fr") {
			fallback = append(fallback, v)
		}
	}
	return fallback
}

func baseLanguage(locale string) string {
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return strings.ToLower(strings.SplitN(locale, "-", 2)[0])
	}
	base, _ := tag.Base()
	return strings.ToLower(base.String())
}

func narrow(candidates []Voice, want string, field func(Voice) string) []Voice {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return candidates
	}
	var matched []Voice
	for _, v := range candidates {
		if field(v) == want {
			matched = append(matched, v)
		}
	}
	if len(matched) == 0 {
		return candidates
	}
	return matched
}

// Locales lists the distinct locales present in the catalog, sorted.
func (r *Registry) Locales() []string {
	seen := make(map[string]struct{})
	var locales []string
	for _, v := range r.voices {
		if _, ok := seen[v.Locale]; ok {
			continue
		}
		seen[v.Locale] = struct{}{}
		locales = append(locales, v.Locale)
	}
	sort.Strings(locales)
	return locales
}
