package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/online-compiler/internal/apperror"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/repository"
)

// Compile-time check that *DB satisfies the repository interface.
var _ repository.SnippetRepository = (*DB)(nil)

// Create inserts a new snippet, generating its ID and timestamps.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	now := time.Now()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, name, language, code, description, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Name,
		snippet.Language,
		snippet.Code,
		snippet.Description,
		nullable(snippet.UserID),
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}
	return nil
}

// GetByID retrieves a single snippet, translating "no rows" into the
// domain's NotFound error.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var (
		s      model.Snippet
		userID sql.NullString
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, language, code, description, user_id, created_at, updated_at
		 FROM snippets
		 WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Name, &s.Language, &s.Code, &s.Description, &userID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}
	s.UserID = userID.String
	return &s, nil
}

// List retrieves snippets newest-first with pagination, optionally filtered
// to one owner.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, name, language, code, description, user_id, created_at, updated_at
		 FROM snippets`
	args := []any{}
	if opts.UserID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, opts.UserID)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)
	for rows.Next() {
		var (
			s      model.Snippet
			userID sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Language, &s.Code, &s.Description,
			&userID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		s.UserID = userID.String
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update modifies an existing snippet. RowsAffected distinguishes "updated"
// from "never existed".
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET name = ?, language = ?, code = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Name,
		snippet.Language,
		snippet.Code,
		snippet.Description,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}
	return nil
}

// Delete removes a snippet by ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("snippet", id)
	}
	return nil
}

// nullable maps an empty string to SQL NULL so foreign keys stay honest.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
