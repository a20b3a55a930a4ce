package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const segmentColumns = "id, chapter_id, body, speaker_id, audio_path, created_at"

// ReplaceSegments atomically swaps a chapter's segment plan. Segments are
// inserted in order so SegmentsByChapter reads them back in plan order.
func (s *Store) ReplaceSegments(ctx context.Context, chapterID int64, segments []NewSegment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace segments: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE chapter_id = ?`, chapterID); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}

	now := timestamp(time.Now())
	for i, seg := range segments {
		var speakerID any
		if id, ok := seg.Speaker.CharacterID(); ok {
			speakerID = id
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO segments (chapter_id, body, speaker_id, created_at) VALUES (?, ?, ?, ?)`,
			chapterID,
			seg.Body,
			speakerID,
			now,
		); err != nil {
			return fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace segments: %w", err)
	}
	return nil
}

// SegmentsByChapter returns a chapter's segments in plan order.
func (s *Store) SegmentsByChapter(ctx context.Context, chapterID int64) ([]*Segment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+segmentColumns+` FROM segments WHERE chapter_id = ? ORDER BY id`,
		chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []*Segment
	for rows.Next() {
		segment, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}

// SetSegmentAudio records the artifact path for a synthesized segment.
func (s *Store) SetSegmentAudio(ctx context.Context, id int64, audioPath string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE segments SET audio_path = ? WHERE id = ?`,
		nullableString(audioPath),
		id,
	)
	if err != nil {
		return fmt.Errorf("set segment audio: %w", err)
	}
	return requireRow(res, "segment", id)
}

func scanSegment(scanner interface{ Scan(dest ...any) error }) (*Segment, error) {
	var (
		id         int64
		chapterID  int64
		body       string
		speakerID  sql.NullInt64
		audioPath  sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &chapterID, &body, &speakerID, &audioPath, &createdRaw); err != nil {
		return nil, err
	}

	segment := &Segment{
		ID:        id,
		ChapterID: chapterID,
		Body:      body,
		Speaker:   Narrator(),
		AudioPath: audioPath.String,
	}
	if speakerID.Valid {
		segment.Speaker = CharacterSpeaker(speakerID.Int64)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		segment.CreatedAt = created
	}
	return segment, nil
}
