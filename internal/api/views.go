package api

import (
	"time"

	"fablecast/internal/library"
)

type documentView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverPath string    `json:"cover_path,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type chapterView struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Position   int    `json:"position"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	AudioDir   string `json:"audio_dir,omitempty"`
}

type characterView struct {
	ID          int64  `json:"id"`
	DocumentID  int64  `json:"document_id"`
	Name        string `json:"name"`
	Gender      string `json:"gender,omitempty"`
	AgeCategory string `json:"age_category,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Quality     string `json:"quality,omitempty"`
	Description string `json:"description,omitempty"`
	VoiceID     string `json:"voice_id,omitempty"`
}

type segmentView struct {
	ID        int64  `json:"id"`
	ChapterID int64  `json:"chapter_id"`
	Body      string `json:"body"`
	// SpeakerID is null for narrator segments.
	SpeakerID *int64 `json:"speaker_id"`
	AudioPath string `json:"audio_path,omitempty"`
}

func documentToView(doc *library.Document) documentView {
	return documentView{
		ID:        doc.ID,
		Title:     doc.Title,
		Author:    doc.Author,
		CoverPath: doc.CoverPath,
		Status:    string(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func chapterToView(chapter *library.Chapter) chapterView {
	return chapterView{
		ID:         chapter.ID,
		DocumentID: chapter.DocumentID,
		Position:   chapter.Position,
		Title:      chapter.Title,
		Status:     string(chapter.Status),
		Progress:   chapter.Progress,
		AudioDir:   chapter.AudioDir,
	}
}

func characterToView(character *library.Character) characterView {
	return characterView{
		ID:          character.ID,
		DocumentID:  character.DocumentID,
		Name:        character.Name,
		Gender:      character.Gender,
		AgeCategory: character.AgeCategory,
		Tone:        character.Tone,
		Quality:     character.Quality,
		Description: character.Description,
		VoiceID:     character.VoiceID,
	}
}

func segmentToView(segment *library.Segment) segmentView {
	view := segmentView{
		ID:        segment.ID,
		ChapterID: segment.ChapterID,
		Body:      segment.Body,
		AudioPath: segment.AudioPath,
	}
	if id, ok := segment.Speaker.CharacterID(); ok {
		view.SpeakerID = &id
	}
	return view
}
