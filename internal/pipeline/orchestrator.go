// Package pipeline orchestrates audiobook production: parsing a document into
// chapters, analyzing its cast, planning segments, and synthesizing audio.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fablecast/internal/analysis"
	"fablecast/internal/casting"
	"fablecast/internal/config"
	"fablecast/internal/library"
	"fablecast/internal/logging"
	"fablecast/internal/parsing"
	"fablecast/internal/services"
	"fablecast/internal/synthesis"
	"fablecast/internal/voice"
)

// Orchestrator runs the four production stages against the library store.
// Every stage is idempotent: re-running replaces the prior stage output.
type Orchestrator struct {
	cfg      *config.Config
	store    *library.Store
	parser   parsing.Parser
	analyzer analysis.Provider
	synth    synthesis.Synthesizer
	registry *voice.Registry
	logger   *slog.Logger
	locks    *chapterLocks
}

// New builds an orchestrator. A nil logger disables logging.
func New(
	cfg *config.Config,
	store *library.Store,
	parser parsing.Parser,
	analyzer analysis.Provider,
	synth synthesis.Synthesizer,
	registry *voice.Registry,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if registry == nil {
		registry = voice.NewRegistry()
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		parser:   parser,
		analyzer: analyzer,
		synth:    synth,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		locks:    newChapterLocks(),
	}
}

// Parse loads the document's source file, fills in metadata, and replaces the
// chapter list. A parse failure marks the document failed and creates no
// chapters; it is not retried.
func (o *Orchestrator) Parse(ctx context.Context, documentID int64) error {
	ctx = services.WithStage(services.WithDocumentID(ctx, documentID), "parse")
	log := logging.WithContext(ctx, o.logger)

	doc, err := o.store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return services.Wrap(services.ErrNotFound, "parse", "load-document", fmt.Sprintf("document %d", documentID), nil)
	}

	parsed, err := o.parser.Parse(ctx, doc.SourcePath)
	if err != nil {
		log.Error("parse failed", logging.Error(err))
		if statusErr := o.store.SetDocumentStatus(ctx, documentID, library.DocumentFailed); statusErr != nil {
			log.Error("mark document failed", logging.Error(statusErr))
		}
		return err
	}

	title := doc.Title
	if strings.TrimSpace(parsed.Title) != "" {
		title = parsed.Title
	}
	author := doc.Author
	if strings.TrimSpace(parsed.Author) != "" {
		author = parsed.Author
	}
	if err := o.store.UpdateDocumentMetadata(ctx, documentID, title, author, doc.CoverPath); err != nil {
		return err
	}

	chapters := make([]library.NewChapter, 0, len(parsed.Chapters))
	for _, ch := range parsed.Chapters {
		chapters = append(chapters, library.NewChapter{Position: ch.Position, Title: ch.Title, Body: ch.Body})
	}
	if err := o.store.ReplaceChapters(ctx, documentID, chapters); err != nil {
		return err
	}

	if err := o.store.SetDocumentStatus(ctx, documentID, library.DocumentReady); err != nil {
		return err
	}
	log.Info("document parsed", logging.Int("chapters", len(chapters)))
	return nil
}

// Analyze extracts the character roster from a bounded chapter prefix and
// replaces the document's characters. Provider failure is absorbed: the
// roster comes up empty, a Narrator is still synthesized, and the document
// still reaches ready. A document with zero chapters is left untouched.
func (o *Orchestrator) Analyze(ctx context.Context, documentID int64) error {
	ctx = services.WithStage(services.WithDocumentID(ctx, documentID), "analyze")
	log := logging.WithContext(ctx, o.logger)

	doc, err := o.store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return services.Wrap(services.ErrNotFound, "analyze", "load-document", fmt.Sprintf("document %d", documentID), nil)
	}

	chapters, err := o.store.FirstChapters(ctx, documentID, o.cfg.Analysis.MaxChapters)
	if err != nil {
		return err
	}
	if len(chapters) == 0 {
		log.Warn("no chapters to analyze")
		return nil
	}

	bodies := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		bodies = append(bodies, ch.Body)
	}
	sample := truncateRunes(strings.Join(bodies, "\n\n---\n\n"), o.cfg.Analysis.MaxAnalyzeChars)

	// Provider call happens with no store writes in flight.
	roster, err := o.analyzer.AnalyzeCharacters(ctx, sample)
	if err != nil {
		log.Warn("character analysis failed, continuing with empty roster", logging.Error(err))
		roster = nil
	}

	characters := make([]library.NewCharacter, 0, len(roster)+1)
	seen := make(map[string]struct{}, len(roster))
	hasNarrator := false
	for _, entry := range roster {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		// The characters table is unique per document on the name, case
		// insensitively; keep the first occurrence of a duplicate rather than
		// letting the constraint fail the stage.
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			log.Warn("duplicate character in roster, keeping first", logging.String("name", name))
			continue
		}
		seen[key] = struct{}{}
		if strings.EqualFold(name, library.NarratorName) {
			hasNarrator = true
		}
		characters = append(characters, library.NewCharacter{
			Name:        name,
			Gender:      entry.Gender,
			AgeCategory: entry.AgeCategory,
			Tone:        entry.Tone,
			Quality:     entry.Quality,
			Description: entry.Description,
			VoiceID:     o.registry.FindBestMatch(voice.Traits{
				Gender:  entry.Gender,
				Age:     entry.AgeCategory,
				Tone:    entry.Tone,
				Quality: entry.Quality,
			}, o.cfg.Voices.Locale),
		})
	}
	if !hasNarrator {
		characters = append(characters, o.narratorCharacter())
	}

	if err := o.store.ReplaceCharacters(ctx, documentID, characters); err != nil {
		return err
	}
	if err := o.store.SetDocumentStatus(ctx, documentID, library.DocumentReady); err != nil {
		return err
	}
	log.Info("document analyzed", logging.Int("characters", len(characters)))
	return nil
}

func (o *Orchestrator) narratorCharacter() library.NewCharacter {
	traits := voice.Traits{Gender: "neutral", Age: "adult", Tone: "warm", Quality: "calm"}
	return library.NewCharacter{
		Name:        library.NarratorName,
		Gender:      "neutral",
		AgeCategory: "adult",
		Tone:        "warm",
		Quality:     "calm",
		Description: "Default narrator",
		VoiceID:     o.registry.FindBestMatch(traits, o.cfg.Voices.Locale),
	}
}

// Segment asks the role-assignment provider to split the chapter and replaces
// the chapter's segment plan. Provider failure or empty output falls back to
// a single full-text narrator segment; the chapter ends up processing either
// way and never with zero segments.
func (o *Orchestrator) Segment(ctx context.Context, chapterID int64) error {
	release := o.locks.acquire(chapterID)
	defer release()

	ctx = services.WithStage(services.WithChapterID(ctx, chapterID), "segment")
	log := logging.WithContext(ctx, o.logger)

	chapter, err := o.store.GetChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if chapter == nil {
		return services.Wrap(services.ErrNotFound, "segment", "load-chapter", fmt.Sprintf("chapter %d", chapterID), nil)
	}
	if err := o.store.SetChapterStatus(ctx, chapterID, library.ChapterProcessing); err != nil {
		return err
	}

	roster, err := o.store.CharactersByDocument(ctx, chapter.DocumentID)
	if err != nil {
		return err
	}
	entries := make([]analysis.RosterEntry, 0, len(roster))
	for _, character := range roster {
		entries = append(entries, analysis.RosterEntry{Name: character.Name, Gender: character.Gender})
	}

	// Provider call happens with no store writes in flight.
	sample := truncateRunes(chapter.Body, o.cfg.Analysis.MaxRoleChars)
	lines, err := o.analyzer.AssignRoles(ctx, sample, entries)
	if err != nil {
		log.Warn("role assignment failed, falling back to narrator segment", logging.Error(err))
		lines = nil
	}

	plan := casting.Normalize(log, lines, roster, chapter.Body)
	if err := o.store.ReplaceSegments(ctx, chapterID, plan); err != nil {
		return err
	}
	log.Info("chapter segmented", logging.Int("segments", len(plan)))
	return nil
}

// Generate synthesizes the chapter's segments in order. Each segment's
// artifact and the chapter progress are committed independently so a crash
// mid-chapter leaves correct partial state. Per-segment synthesis failures
// are logged and skipped; the chapter completes if at least one artifact was
// produced, otherwise it fails with progress reset to zero.
func (o *Orchestrator) Generate(ctx context.Context, chapterID int64) error {
	release := o.locks.acquire(chapterID)
	defer release()

	ctx = services.WithStage(services.WithChapterID(ctx, chapterID), "generate")
	log := logging.WithContext(ctx, o.logger)

	chapter, err := o.store.GetChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if chapter == nil {
		return services.Wrap(services.ErrNotFound, "generate", "load-chapter", fmt.Sprintf("chapter %d", chapterID), nil)
	}
	// Committed immediately so progress is observable before synthesis starts.
	if err := o.store.SetChapterStatus(ctx, chapterID, library.ChapterProcessing); err != nil {
		return err
	}

	segments, err := o.store.SegmentsByChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		log.Warn("no segments, synthesizing full-text narrator segment")
		fallback := []library.NewSegment{{Body: chapter.Body, Speaker: library.Narrator()}}
		if err := o.store.ReplaceSegments(ctx, chapterID, fallback); err != nil {
			return err
		}
		if segments, err = o.store.SegmentsByChapter(ctx, chapterID); err != nil {
			return err
		}
	}

	roster, err := o.store.CharactersByDocument(ctx, chapter.DocumentID)
	if err != nil {
		return err
	}
	characters := make(map[int64]*library.Character, len(roster))
	var narrator *library.Character
	for _, character := range roster {
		characters[character.ID] = character
		if narrator == nil && character.IsNarrator() {
			narrator = character
		}
	}

	audioDir := filepath.Join(
		o.cfg.Paths.AudioDir,
		fmt.Sprintf("document_%d", chapter.DocumentID),
		fmt.Sprintf("chapter_%d", chapter.Position),
	)
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "generate", "audio-dir", "create audio directory", err)
	}

	total := len(segments)
	completed := 0
	artifacts := 0
	for i, segment := range segments {
		if strings.TrimSpace(segment.Body) == "" {
			completed++
			o.commitProgress(ctx, log, chapterID, completed, total)
			continue
		}

		voiceID := casting.ResolveVoice(segment.Speaker, characters, narrator)
		destPath := filepath.Join(audioDir, fmt.Sprintf("segment_%04d.mp3", i))

		// The long external call; no store writes are held across it.
		if err := o.synth.Synthesize(ctx, segment.Body, voiceID, destPath); err != nil {
			log.Warn("segment synthesis failed, skipping",
				logging.Int("segment", i),
				logging.String("voice", voiceID),
				logging.Error(err))
			completed++
			o.commitProgress(ctx, log, chapterID, completed, total)
			continue
		}

		if err := o.store.SetSegmentAudio(ctx, segment.ID, destPath); err != nil {
			return err
		}
		completed++
		artifacts++
		o.commitProgress(ctx, log, chapterID, completed, total)
	}

	if artifacts > 0 {
		if err := o.store.FinishChapter(ctx, chapterID, library.ChapterCompleted, 100, audioDir); err != nil {
			return err
		}
		log.Info("chapter generated", logging.Int("artifacts", artifacts), logging.Int("segments", total))
		return nil
	}

	if err := o.store.FinishChapter(ctx, chapterID, library.ChapterFailed, 0, ""); err != nil {
		return err
	}
	log.Error("chapter generation produced no artifacts", logging.Int("segments", total))
	return services.Wrap(services.ErrProvider, "generate", "synthesize", "no segment produced audio", nil)
}

func (o *Orchestrator) commitProgress(ctx context.Context, log *slog.Logger, chapterID int64, completed, total int) {
	if total <= 0 {
		return
	}
	progress := int(float64(completed)/float64(total)*100 + 0.5)
	if err := o.store.SetChapterProgress(ctx, chapterID, progress); err != nil {
		log.Warn("commit progress", logging.Error(err))
	}
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
