package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const characterColumns = "id, document_id, name, gender, age_category, tone, quality, description, voice_id, created_at, updated_at"

// ReplaceCharacters atomically swaps the character roster of a document.
// Re-running Analyze therefore reproduces an equivalent roster instead of
// accumulating duplicates. Segment speaker references to removed characters
// fall back to the narrator at the schema level.
func (s *Store) ReplaceCharacters(ctx context.Context, documentID int64, characters []NewCharacter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace characters: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete characters: %w", err)
	}

	now := timestamp(time.Now())
	for _, ch := range characters {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO characters (document_id, name, gender, age_category, tone, quality, description, voice_id, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			documentID,
			ch.Name,
			ch.Gender,
			ch.AgeCategory,
			ch.Tone,
			ch.Quality,
			ch.Description,
			nullableString(ch.VoiceID),
			now,
			now,
		); err != nil {
			return fmt.Errorf("insert character %q: %w", ch.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace characters: %w", err)
	}
	return nil
}

// GetCharacter fetches a character by identifier, returning nil when absent.
func (s *Store) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)
	character, err := scanCharacter(row)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}
	return character, nil
}

// CharactersByDocument returns a document's roster ordered by insertion.
func (s *Store) CharactersByDocument(ctx context.Context, documentID int64) ([]*Character, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+characterColumns+` FROM characters WHERE document_id = ? ORDER BY id`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var characters []*Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, character)
	}
	return characters, rows.Err()
}

// UpdateCharacter persists a manual override of name, gender, or voice.
func (s *Store) UpdateCharacter(ctx context.Context, character *Character) error {
	if character == nil {
		return fmt.Errorf("character is nil")
	}
	character.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE characters
         SET name = ?, gender = ?, age_category = ?, tone = ?, quality = ?, description = ?, voice_id = ?, updated_at = ?
         WHERE id = ?`,
		character.Name,
		character.Gender,
		character.AgeCategory,
		character.Tone,
		character.Quality,
		character.Description,
		nullableString(character.VoiceID),
		timestamp(character.UpdatedAt),
		character.ID,
	)
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	return requireRow(res, "character", character.ID)
}

func scanCharacter(scanner interface{ Scan(dest ...any) error }) (*Character, error) {
	var (
		id          int64
		documentID  int64
		name        string
		gender      string
		ageCategory string
		tone        string
		quality     string
		description string
		voiceID     sql.NullString
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(&id, &documentID, &name, &gender, &ageCategory, &tone, &quality, &description, &voiceID, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	character := &Character{
		ID:          id,
		DocumentID:  documentID,
		Name:        name,
		Gender:      gender,
		AgeCategory: ageCategory,
		Tone:        tone,
		Quality:     quality,
		Description: description,
		VoiceID:     voiceID.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		character.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		character.UpdatedAt = updated
	}
	return character, nil
}
