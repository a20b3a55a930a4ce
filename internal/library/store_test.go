package library_test

import (
	"context"
	"testing"

	"fablecast/internal/library"
	"fablecast/internal/testsupport"
)

func TestDocumentLifecycle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	doc, err := store.CreateDocument(ctx, "Le Comte", "Dumas", "/tmp/le-comte.txt")
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.Status != library.DocumentProcessing {
		t.Fatalf("new document status = %s, want %s", doc.Status, library.DocumentProcessing)
	}

	if err := store.UpdateDocumentMetadata(ctx, doc.ID, "Le Comte de Monte-Cristo", "Alexandre Dumas", "/covers/1.jpg"); err != nil {
		t.Fatalf("UpdateDocumentMetadata: %v", err)
	}
	if err := store.SetDocumentStatus(ctx, doc.ID, library.DocumentReady); err != nil {
		t.Fatalf("SetDocumentStatus(ready): %v", err)
	}

	reloaded, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if reloaded.Title != "Le Comte de Monte-Cristo" || reloaded.Author != "Alexandre Dumas" {
		t.Fatalf("metadata not persisted: %+v", reloaded)
	}
	if reloaded.Status != library.DocumentReady {
		t.Fatalf("status = %s, want ready", reloaded.Status)
	}

	// Re-entering ready is legal (Analyze may run again); failing a ready
	// document is not.
	if err := store.SetDocumentStatus(ctx, doc.ID, library.DocumentReady); err != nil {
		t.Fatalf("re-enter ready: %v", err)
	}
	if err := store.SetDocumentStatus(ctx, doc.ID, library.DocumentFailed); err == nil {
		t.Fatal("ready -> failed should be rejected")
	}
}

func TestFailedDocumentIsTerminal(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	doc := testsupport.NewDocument(t, store, "Broken")
	if err := store.SetDocumentStatus(ctx, doc.ID, library.DocumentFailed); err != nil {
		t.Fatalf("SetDocumentStatus(failed): %v", err)
	}
	if err := store.SetDocumentStatus(ctx, doc.ID, library.DocumentReady); err == nil {
		t.Fatal("failed -> ready should be rejected")
	}
}

func TestGetDocumentMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	doc, err := store.GetDocument(context.Background(), 424242)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil for missing document, got %+v", doc)
	}
}

func TestReplaceChaptersIsIdempotent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Serial")

	first := []library.NewChapter{
		{Position: 1, Title: "Chapitre 1", Body: "Il etait une fois."},
		{Position: 2, Title: "Chapitre 2", Body: "La suite."},
	}
	if err := store.ReplaceChapters(ctx, doc.ID, first); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}

	second := []library.NewChapter{
		{Position: 1, Title: "Chapitre 1 (rev)", Body: "Il etait une fois, revu."},
	}
	if err := store.ReplaceChapters(ctx, doc.ID, second); err != nil {
		t.Fatalf("ReplaceChapters again: %v", err)
	}

	chapters, err := store.ChaptersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChaptersByDocument: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("chapter count after replace = %d, want 1", len(chapters))
	}
	if chapters[0].Title != "Chapitre 1 (rev)" {
		t.Fatalf("chapter title = %q", chapters[0].Title)
	}
	if chapters[0].Status != library.ChapterPending || chapters[0].Progress != 0 {
		t.Fatalf("new chapter should be pending at 0%%, got %s/%d", chapters[0].Status, chapters[0].Progress)
	}
}

func TestFirstChaptersLimit(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Long")

	var chapters []library.NewChapter
	for i := 1; i <= 5; i++ {
		chapters = append(chapters, library.NewChapter{Position: i, Title: "Ch", Body: "texte"})
	}
	if err := store.ReplaceChapters(ctx, doc.ID, chapters); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}

	first, err := store.FirstChapters(ctx, doc.ID, 3)
	if err != nil {
		t.Fatalf("FirstChapters: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("FirstChapters returned %d chapters, want 3", len(first))
	}
	for i, ch := range first {
		if ch.Position != i+1 {
			t.Fatalf("chapter %d has position %d", i, ch.Position)
		}
	}

	none, err := store.FirstChapters(ctx, doc.ID, 0)
	if err != nil {
		t.Fatalf("FirstChapters(0): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("FirstChapters(0) returned %d chapters", len(none))
	}
}

func TestChapterStatusAndProgress(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Progress")

	if err := store.ReplaceChapters(ctx, doc.ID, []library.NewChapter{{Position: 1, Title: "Ch", Body: "texte"}}); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}
	chapters, err := store.ChaptersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChaptersByDocument: %v", err)
	}
	chapterID := chapters[0].ID

	if err := store.SetChapterStatus(ctx, chapterID, library.ChapterCompleted); err == nil {
		t.Fatal("pending -> completed should be rejected")
	}
	if err := store.SetChapterStatus(ctx, chapterID, library.ChapterProcessing); err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}

	if err := store.SetChapterProgress(ctx, chapterID, 250); err != nil {
		t.Fatalf("SetChapterProgress: %v", err)
	}
	chapter, err := store.GetChapter(ctx, chapterID)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if chapter.Progress != 100 {
		t.Fatalf("progress should clamp to 100, got %d", chapter.Progress)
	}

	if err := store.FinishChapter(ctx, chapterID, library.ChapterCompleted, 100, "/audio/document_1/chapter_1"); err != nil {
		t.Fatalf("FinishChapter: %v", err)
	}
	chapter, err = store.GetChapter(ctx, chapterID)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if chapter.Status != library.ChapterCompleted || chapter.AudioDir == "" {
		t.Fatalf("finish not persisted: %+v", chapter)
	}

	// A completed chapter can re-enter processing for a fresh Generate run.
	if err := store.SetChapterStatus(ctx, chapterID, library.ChapterProcessing); err != nil {
		t.Fatalf("completed -> processing: %v", err)
	}
}

func TestReplaceCharactersAndUpdate(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Roster")

	roster := []library.NewCharacter{
		{Name: "Narrator", Gender: "neutral", AgeCategory: "adult", Tone: "warm", Quality: "calm"},
		{Name: "Edmond", Gender: "male", AgeCategory: "adult", Tone: "deep", VoiceID: "fr-FR-HenriNeural"},
	}
	if err := store.ReplaceCharacters(ctx, doc.ID, roster); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}

	// Replacing again must not accumulate rows.
	if err := store.ReplaceCharacters(ctx, doc.ID, roster); err != nil {
		t.Fatalf("ReplaceCharacters again: %v", err)
	}
	characters, err := store.CharactersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("CharactersByDocument: %v", err)
	}
	if len(characters) != 2 {
		t.Fatalf("character count = %d, want 2", len(characters))
	}
	if !characters[0].IsNarrator() {
		t.Fatalf("first character should be the narrator, got %q", characters[0].Name)
	}

	edmond := characters[1]
	edmond.VoiceID = "fr-FR-RemyMultilingualNeural"
	edmond.Gender = "male"
	if err := store.UpdateCharacter(ctx, edmond); err != nil {
		t.Fatalf("UpdateCharacter: %v", err)
	}
	reloaded, err := store.GetCharacter(ctx, edmond.ID)
	if err != nil {
		t.Fatalf("GetCharacter: %v", err)
	}
	if reloaded.VoiceID != "fr-FR-RemyMultilingualNeural" {
		t.Fatalf("voice override not persisted: %q", reloaded.VoiceID)
	}
}

func TestReplaceSegmentsAndAudio(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Segments")

	if err := store.ReplaceChapters(ctx, doc.ID, []library.NewChapter{{Position: 1, Title: "Ch", Body: "texte"}}); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}
	if err := store.ReplaceCharacters(ctx, doc.ID, []library.NewCharacter{{Name: "Edmond", Gender: "male"}}); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}
	chapters, _ := store.ChaptersByDocument(ctx, doc.ID)
	characters, _ := store.CharactersByDocument(ctx, doc.ID)
	chapterID := chapters[0].ID
	edmondID := characters[0].ID

	plan := []library.NewSegment{
		{Body: "Il etait une fois.", Speaker: library.Narrator()},
		{Body: "Je suis Edmond.", Speaker: library.CharacterSpeaker(edmondID)},
		{Body: "Fin du chapitre.", Speaker: library.Narrator()},
	}
	if err := store.ReplaceSegments(ctx, chapterID, plan); err != nil {
		t.Fatalf("ReplaceSegments: %v", err)
	}

	segments, err := store.SegmentsByChapter(ctx, chapterID)
	if err != nil {
		t.Fatalf("SegmentsByChapter: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("segment count = %d, want 3", len(segments))
	}
	if !segments[0].Speaker.IsNarrator() || !segments[2].Speaker.IsNarrator() {
		t.Fatal("narration segments should carry the narrator speaker")
	}
	if id, ok := segments[1].Speaker.CharacterID(); !ok || id != edmondID {
		t.Fatalf("segment speaker = %d, %v; want %d", id, ok, edmondID)
	}

	if err := store.SetSegmentAudio(ctx, segments[0].ID, "/audio/document_1/chapter_1/segment_0000.mp3"); err != nil {
		t.Fatalf("SetSegmentAudio: %v", err)
	}
	segments, _ = store.SegmentsByChapter(ctx, chapterID)
	if segments[0].AudioPath == "" {
		t.Fatal("audio path not persisted")
	}
	if segments[1].AudioPath != "" {
		t.Fatal("untouched segment should have no audio path")
	}
}

func TestDeleteDocumentCascades(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := testsupport.NewDocument(t, store, "Gone")

	if err := store.ReplaceChapters(ctx, doc.ID, []library.NewChapter{{Position: 1, Title: "Ch", Body: "texte"}}); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}
	chapters, _ := store.ChaptersByDocument(ctx, doc.ID)
	if err := store.ReplaceSegments(ctx, chapters[0].ID, []library.NewSegment{{Body: "texte"}}); err != nil {
		t.Fatalf("ReplaceSegments: %v", err)
	}

	deleted, err := store.DeleteDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if !deleted {
		t.Fatal("expected a deletion")
	}

	remaining, err := store.ChaptersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChaptersByDocument: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("chapters should cascade away, found %d", len(remaining))
	}

	deleted, err = store.DeleteDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("DeleteDocument again: %v", err)
	}
	if deleted {
		t.Fatal("second delete should report nothing removed")
	}
}
