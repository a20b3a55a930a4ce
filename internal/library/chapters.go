package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const chapterColumns = "id, document_id, position, title, body, status, progress, audio_dir, created_at, updated_at"

// ReplaceChapters atomically swaps the chapter list of a document for the
// parsed set, in position order. Existing segments cascade away with the old
// chapters, so re-running Parse is idempotent.
func (s *Store) ReplaceChapters(ctx context.Context, documentID int64, chapters []NewChapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace chapters: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete chapters: %w", err)
	}

	now := timestamp(time.Now())
	for _, ch := range chapters {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO chapters (document_id, position, title, body, status, progress, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
			documentID,
			ch.Position,
			ch.Title,
			ch.Body,
			ChapterPending,
			now,
			now,
		); err != nil {
			return fmt.Errorf("insert chapter %d: %w", ch.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace chapters: %w", err)
	}
	return nil
}

// GetChapter fetches a chapter by identifier, returning nil when absent.
func (s *Store) GetChapter(ctx context.Context, id int64) (*Chapter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	chapter, err := scanChapter(row)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return chapter, nil
}

// ChaptersByDocument returns a document's chapters ordered by position.
func (s *Store) ChaptersByDocument(ctx context.Context, documentID int64) ([]*Chapter, error) {
	return s.chaptersQuery(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE document_id = ? ORDER BY position`, documentID)
}

// FirstChapters returns the leading chapters of a document in position order,
// bounded by limit. Analyze uses this to keep provider input small.
func (s *Store) FirstChapters(ctx context.Context, documentID int64, limit int) ([]*Chapter, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.chaptersQuery(
		ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE document_id = ? ORDER BY position LIMIT ?`,
		documentID,
		limit,
	)
}

func (s *Store) chaptersQuery(ctx context.Context, query string, args ...any) ([]*Chapter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// SetChapterStatus transitions a chapter, enforcing the status state machine.
func (s *Store) SetChapterStatus(ctx context.Context, id int64, status ChapterStatus) error {
	chapter, err := s.GetChapter(ctx, id)
	if err != nil {
		return err
	}
	if chapter == nil {
		return fmt.Errorf("chapter %d: %w", id, errNotFound)
	}
	if !chapter.Status.CanTransition(status) {
		return fmt.Errorf("chapter %d: illegal transition %s -> %s", id, chapter.Status, status)
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE chapters SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("set chapter status: %w", err)
	}
	return nil
}

// SetChapterProgress commits a progress value independently so partial
// progress survives a crash mid-chapter.
func (s *Store) SetChapterProgress(ctx context.Context, id int64, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE chapters SET progress = ?, updated_at = ? WHERE id = ?`,
		progress,
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("set chapter progress: %w", err)
	}
	return requireRow(res, "chapter", id)
}

// FinishChapter records the terminal state of a Generate run: status,
// progress, and the audio directory reference in one commit.
func (s *Store) FinishChapter(ctx context.Context, id int64, status ChapterStatus, progress int, audioDir string) error {
	chapter, err := s.GetChapter(ctx, id)
	if err != nil {
		return err
	}
	if chapter == nil {
		return fmt.Errorf("chapter %d: %w", id, errNotFound)
	}
	if !chapter.Status.CanTransition(status) {
		return fmt.Errorf("chapter %d: illegal transition %s -> %s", id, chapter.Status, status)
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE chapters SET status = ?, progress = ?, audio_dir = ?, updated_at = ? WHERE id = ?`,
		status,
		progress,
		nullableString(audioDir),
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish chapter: %w", err)
	}
	return nil
}

func scanChapter(scanner interface{ Scan(dest ...any) error }) (*Chapter, error) {
	var (
		id         int64
		documentID int64
		position   int
		title      string
		body       string
		statusStr  string
		progress   int
		audioDir   sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &documentID, &position, &title, &body, &statusStr, &progress, &audioDir, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	chapter := &Chapter{
		ID:         id,
		DocumentID: documentID,
		Position:   position,
		Title:      title,
		Body:       body,
		Status:     ChapterStatus(statusStr),
		Progress:   progress,
		AudioDir:   audioDir.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		chapter.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		chapter.UpdatedAt = updated
	}
	return chapter, nil
}
