package library

import (
	"strings"
	"time"
)

// DocumentStatus represents the lifecycle of an uploaded document.
type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentReady      DocumentStatus = "ready"
	DocumentFailed     DocumentStatus = "failed"
)

// ChapterStatus represents the production lifecycle of a single chapter.
type ChapterStatus string

const (
	ChapterPending    ChapterStatus = "pending"
	ChapterProcessing ChapterStatus = "processing"
	ChapterCompleted  ChapterStatus = "completed"
	ChapterFailed     ChapterStatus = "failed"
)

var documentStatuses = map[DocumentStatus]struct{}{
	DocumentProcessing: {},
	DocumentReady:      {},
	DocumentFailed:     {},
}

var chapterStatuses = map[ChapterStatus]struct{}{
	ChapterPending:    {},
	ChapterProcessing: {},
	ChapterCompleted:  {},
	ChapterFailed:     {},
}

// documentTransitions encodes the legal document status moves. Ready is
// re-enterable because Analyze may run again on a ready document.
var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentProcessing: {DocumentReady, DocumentFailed},
	DocumentReady:      {DocumentReady},
	DocumentFailed:     {},
}

// chapterTransitions encodes the legal chapter status moves. Processing is
// re-enterable so Segment and Generate can be re-triggered at any later time.
var chapterTransitions = map[ChapterStatus][]ChapterStatus{
	ChapterPending:    {ChapterProcessing},
	ChapterProcessing: {ChapterProcessing, ChapterCompleted, ChapterFailed},
	ChapterCompleted:  {ChapterProcessing},
	ChapterFailed:     {ChapterProcessing},
}

// ParseDocumentStatus converts a string into a known DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, bool) {
	normalized := DocumentStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := documentStatuses[normalized]
	return normalized, ok
}

// ParseChapterStatus converts a string into a known ChapterStatus.
func ParseChapterStatus(value string) (ChapterStatus, bool) {
	normalized := ChapterStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := chapterStatuses[normalized]
	return normalized, ok
}

// CanTransition reports whether a document may move from one status to another.
func (s DocumentStatus) CanTransition(to DocumentStatus) bool {
	for _, next := range documentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether a chapter may move from one status to another.
func (s ChapterStatus) CanTransition(to ChapterStatus) bool {
	for _, next := range chapterTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Document is an uploaded source text tracked through production.
type Document struct {
	ID         int64
	Title      string
	Author     string
	CoverPath  string
	SourcePath string
	Status     DocumentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Chapter is one positioned unit of a document's text.
type Chapter struct {
	ID         int64
	DocumentID int64
	Position   int
	Title      string
	Body       string
	Status     ChapterStatus
	Progress   int
	AudioDir   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Character is a speaking role discovered by analysis (or created manually).
type Character struct {
	ID          int64
	DocumentID  int64
	Name        string
	Gender      string
	AgeCategory string
	Tone        string
	Quality     string
	Description string
	VoiceID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNarrator reports whether the character is the document narrator.
func (c Character) IsNarrator() bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), NarratorName)
}

// NarratorName is the reserved, case-insensitive narrator character name.
const NarratorName = "Narrator"

// Speaker is a tagged variant: either the narrator sentinel or a character
// reference. The zero value is the narrator.
type Speaker struct {
	characterID int64
}

// Narrator returns the narrator sentinel speaker.
func Narrator() Speaker {
	return Speaker{}
}

// CharacterSpeaker returns a speaker referencing the given character row.
func CharacterSpeaker(id int64) Speaker {
	if id <= 0 {
		return Speaker{}
	}
	return Speaker{characterID: id}
}

// IsNarrator reports whether the speaker is the narrator sentinel.
func (s Speaker) IsNarrator() bool {
	return s.characterID == 0
}

// CharacterID returns the referenced character id when the speaker is not the
// narrator sentinel.
func (s Speaker) CharacterID() (int64, bool) {
	if s.characterID == 0 {
		return 0, false
	}
	return s.characterID, true
}

// Segment is one ordered, speaker-tagged slice of chapter text.
type Segment struct {
	ID        int64
	ChapterID int64
	Body      string
	Speaker   Speaker
	AudioPath string
	CreatedAt time.Time
}

// NewSegment describes a segment to be inserted by a replace operation.
type NewSegment struct {
	Body    string
	Speaker Speaker
}

// NewChapter describes a chapter produced by parsing.
type NewChapter struct {
	Position int
	Title    string
	Body     string
}

// NewCharacter describes a character produced by analysis.
type NewCharacter struct {
	Name        string
	Gender      string
	AgeCategory string
	Tone        string
	Quality     string
	Description string
	VoiceID     string
}
