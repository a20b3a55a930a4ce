package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const documentColumns = "id, title, author, cover_path, source_path, status, created_at, updated_at"

// CreateDocument inserts a freshly uploaded document in the processing state.
func (s *Store) CreateDocument(ctx context.Context, title, author, sourcePath string) (*Document, error) {
	now := timestamp(time.Now())
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (title, author, cover_path, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title,
		author,
		nil,
		nullableString(sourcePath),
		DocumentProcessing,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetDocument(ctx, id)
}

// GetDocument fetches a document by identifier, returning nil when absent.
func (s *Store) GetDocument(ctx context.Context, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by creation time.
func (s *Store) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateDocumentMetadata persists parse results (title, author, cover).
func (s *Store) UpdateDocumentMetadata(ctx context.Context, id int64, title, author, coverPath string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE documents SET title = ?, author = ?, cover_path = ?, updated_at = ? WHERE id = ?`,
		title,
		author,
		nullableString(coverPath),
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("update document metadata: %w", err)
	}
	return requireRow(res, "document", id)
}

// SetDocumentStatus transitions a document, enforcing the status state machine.
func (s *Store) SetDocumentStatus(ctx context.Context, id int64, status DocumentStatus) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %d: %w", id, errNotFound)
	}
	if !doc.Status.CanTransition(status) {
		return fmt.Errorf("document %d: illegal transition %s -> %s", id, doc.Status, status)
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE documents SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("set document status: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; chapters, characters, and segments
// cascade at the schema level.
func (s *Store) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

var errNotFound = errors.New("not found")

// IsNotFound reports whether an error from the store indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func requireRow(res sql.Result, entity string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, errNotFound)
	}
	return nil
}

func scanDocument(scanner interface{ Scan(dest ...any) error }) (*Document, error) {
	var (
		id         int64
		title      string
		author     string
		coverPath  sql.NullString
		sourcePath sql.NullString
		statusStr  string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &title, &author, &coverPath, &sourcePath, &statusStr, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	doc := &Document{
		ID:         id,
		Title:      title,
		Author:     author,
		CoverPath:  coverPath.String,
		SourcePath: sourcePath.String,
		Status:     DocumentStatus(statusStr),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		doc.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		doc.UpdatedAt = updated
	}
	return doc, nil
}
