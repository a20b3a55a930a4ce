package voice

// Voice describes one synthesizer voice and the traits used for matching.
type Voice struct {
	ID       string
	Locale   string
	Gender   string
	Age      string
	Tone     string
	Quality  string
	BaseRank int
}

// DefaultVoiceID is the ultimate fallback when matching finds nothing.
const DefaultVoiceID = "fr-FR-DeniseNeural"

// DefaultMaleVoiceID is used when only a male gender hint is available.
const DefaultMaleVoiceID = "fr-FR-HenriNeural"

// catalog is the curated voice set. BaseRank runs 1-10, higher is better, and
// seeds the match score before trait bonuses.
var catalog = []Voice{
	{ID: "fr-FR-DeniseNeural", Locale: "fr-FR", Gender: "female", Age: "adult", Tone: "warm", Quality: "calm", BaseRank: 8},
	{ID: "fr-FR-EloiseNeural", Locale: "fr-FR", Gender: "female", Age: "young", Tone: "soft", Quality: "cheerful", BaseRank: 7},
	{ID: "fr-FR-VivienneMultilingualNeural", Locale: "fr-FR", Gender: "female", Age: "adult", Tone: "professional", Quality: "authoritative", BaseRank: 8},

	{ID: "fr-FR-HenriNeural", Locale: "fr-FR", Gender: "male", Age: "adult", Tone: "deep", Quality: "calm", BaseRank: 8},
	{ID: "fr-FR-AlainNeural", Locale: "fr-FR", Gender: "male", Age: "adult", Tone: "warm", Quality: "friendly", BaseRank: 7},
	{ID: "fr-FR-ClaudeNeural", Locale: "fr-FR", Gender: "male", Age: "old", Tone: "deep", Quality: "authoritative", BaseRank: 7},
	{ID: "fr-FR-JeromeNeural", Locale: "fr-FR", Gender: "male", Age: "young", Tone: "energetic", Quality: "enthusiastic", BaseRank: 6},
	{ID: "fr-FR-MauriceNeural", Locale: "fr-FR", Gender: "male", Age: "old", Tone: "rough", Quality: "serious", BaseRank: 6},
	{ID: "fr-FR-YvesNeural", Locale: "fr-FR", Gender: "male", Age: "adult", Tone: "professional", Quality: "calm", BaseRank: 7},
	{ID: "fr-FR-RemyMultilingualNeural", Locale: "fr-FR", Gender: "male", Age: "adult", Tone: "clear", Quality: "professional", BaseRank: 8},

	{ID: "fr-FR-BrigitteNeural", Locale: "fr-FR", Gender: "female", Age: "teen", Tone: "high", Quality: "energetic", BaseRank: 6},
	{ID: "fr-FR-CelesteNeural", Locale: "fr-FR", Gender: "female", Age: "teen", Tone: "soft", Quality: "gentle", BaseRank: 6},

	{ID: "en-US-JennyNeural", Locale: "en-US", Gender: "female", Age: "adult", Tone: "warm", Quality: "friendly", BaseRank: 9},
	{ID: "en-US-AriaNeural", Locale: "en-US", Gender: "female", Age: "young", Tone: "energetic", Quality: "cheerful", BaseRank: 8},
	{ID: "en-US-SaraNeural", Locale: "en-US", Gender: "female", Age: "adult", Tone: "professional", Quality: "calm", BaseRank: 8},
	{ID: "en-US-NancyNeural", Locale: "en-US", Gender: "female", Age: "old", Tone: "warm", Quality: "wise", BaseRank: 7},

	{ID: "en-US-GuyNeural", Locale: "en-US", Gender: "male", Age: "adult", Tone: "deep", Quality: "authoritative", BaseRank: 9},
	{ID: "en-US-TonyNeural", Locale: "en-US", Gender: "male", Age: "young", Tone: "energetic", Quality: "enthusiastic", BaseRank: 8},
	{ID: "en-US-ChristopherNeural", Locale: "en-US", Gender: "male", Age: "adult", Tone: "professional", Quality: "calm", BaseRank: 8},
	{ID: "en-US-EricNeural", Locale: "en-US", Gender: "male", Age: "adult", Tone: "deep", Quality: "serious", BaseRank: 7},

	{ID: "en-GB-SoniaNeural", Locale: "en-GB", Gender: "female", Age: "adult", Tone: "warm", Quality: "professional", BaseRank: 8},
	{ID: "en-GB-LibbyNeural", Locale: "en-GB", Gender: "female", Age: "young", Tone: "cheerful", Quality: "friendly", BaseRank: 8},
	{ID: "en-GB-MaisieNeural", Locale: "en-GB", Gender: "female", Age: "child", Tone: "high", Quality: "enthusiastic", BaseRank: 7},

	{ID: "en-GB-RyanNeural", Locale: "en-GB", Gender: "male", Age: "adult", Tone: "deep", Quality: "authoritative", BaseRank: 8},
	{ID: "en-GB-ThomasNeural", Locale: "en-GB", Gender: "male", Age: "young", Tone: "energetic", Quality: "friendly", BaseRank: 7},

	{ID: "es-ES-ElviraNeural", Locale: "es-ES", Gender: "female", Age: "adult", Tone: "warm", Quality: "calm", BaseRank: 7},
	{ID: "es-ES-AlvaroNeural", Locale: "es-ES", Gender: "male", Age: "adult", Tone: "deep", Quality: "authoritative", BaseRank: 7},
	{ID: "es-MX-DaliaNeural", Locale: "es-MX", Gender: "female", Age: "young", Tone: "cheerful", Quality: "friendly", BaseRank: 7},
	{ID: "es-MX-JorgeNeural", Locale: "es-MX", Gender: "male", Age: "adult", Tone: "warm", Quality: "professional", BaseRank: 7},

	{ID: "de-DE-KatjaNeural", Locale: "de-DE", Gender: "female", Age: "adult", Tone: "professional", Quality: "calm", BaseRank: 7},
	{ID: "de-DE-ConradNeural", Locale: "de-DE", Gender: "male", Age: "adult", Tone: "deep", Quality: "authoritative", BaseRank: 7},

	{ID: "it-IT-ElsaNeural", Locale: "it-IT", Gender: "female", Age: "adult", Tone: "warm", Quality: "expressive", BaseRank: 7},
	{ID: "it-IT-DiegoNeural", Locale: "it-IT", Gender: "male", Age: "adult", Tone: "deep", Quality: "passionate", BaseRank: 7},
}
