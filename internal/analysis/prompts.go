package analysis

import (
	"fmt"
	"strings"
)

const analyzeSystemPrompt = `You are an expert literary analyst.
Analyze the following text from a book chapter.
Identify the Narrator (if distinct) and all unique characters who speak or are mentioned significantly.

For each character, determine:
- Their likely age category: "child" (0-12), "teen" (13-19), "young" (20-35), "adult" (36-60), or "old" (60+)
- Their voice tone: describe the tone (e.g., "deep", "high", "soft", "rough", "warm", "cold")
- Their voice quality: describe the emotional quality (e.g., "energetic", "calm", "ominous", "cheerful", "authoritative")

Return the result strictly as a JSON object with this structure:
{
    "characters": [
        {
            "name": "Character Name",
            "gender": "male" or "female" or "neutral",
            "age_category": "child" or "teen" or "young" or "adult" or "old",
            "tone": "Brief description of voice tone",
            "voice_quality": "Brief description of voice quality/emotion",
            "description": "Short description of personality and role in the story"
        }
    ]
}`

func assignRolesSystemPrompt(roster []RosterEntry) string {
	speakers := make([]string, 0, len(roster))
	for _, entry := range roster {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		if gender := strings.TrimSpace(entry.Gender); gender != "" {
			speakers = append(speakers, fmt.Sprintf("%s (%s)", name, gender))
		} else {
			speakers = append(speakers, name)
		}
	}

	return fmt.Sprintf(`You are adapting a novel for audiobook narration.
Your task is to split the text into segments and assign a speaker to each segment.

IMPORTANT: Keep segments LONG and natural. Each segment should be:
- A complete paragraph of narration (for Narrator)
- A complete line of dialogue with its dialogue tag (for characters)
- Never split mid-sentence or mid-thought

Available speakers: %s.

Rules:
1. Narrator speaks all descriptive text, action, and narration.
2. Character names speak their dialogue (text inside quotation marks).
3. Keep dialogue with its surrounding description if short (e.g., "said Henri quietly")
4. Aim for segments of 50-500 words each. NEVER create segments shorter than 20 words.
5. Preserve the natural flow and rhythm of the prose.

Return a JSON array:
[
    {"text": "Long paragraph of narration here...", "speaker": "Narrator"},
    {"text": "Character's complete dialogue with tag.", "speaker": "CharacterName"}
]`, strings.Join(append(speakers, "Narrator"), ", "))
}
