package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultListLimit = 100

// PutDocument inserts or replaces the document stored under in.Name.
func (s *Store) PutDocument(ctx context.Context, in PutDocumentInput) (doc Document, inserted bool, err error) {
	if strings.TrimSpace(in.Name) == "" {
		return Document{}, false, fmt.Errorf("%w: name", ErrMissingField)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, false, wrapIO("begin put document", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT name FROM documents WHERE name = ?`, in.Name).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		inserted = true
	case err != nil:
		return Document{}, false, wrapIO("lookup document", err)
	}

	now := timeToDBString(time.Now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (name, html, source, input_bytes, sanitized_bytes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			html = excluded.html,
			source = excluded.source,
			input_bytes = excluded.input_bytes,
			sanitized_bytes = excluded.sanitized_bytes,
			updated_at = excluded.updated_at
	`,
		in.Name,
		in.HTML,
		in.Source,
		in.InputBytes,
		in.SanitizedBytes,
		now,
		now,
	)
	if err != nil {
		return Document{}, false, wrapIO("write document", err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+documentSelectColumns+` FROM documents WHERE name = ?`, in.Name)
	if doc, err = scanDocument(row); err != nil {
		return Document{}, false, wrapIO("read back document", err)
	}
	if err = tx.Commit(); err != nil {
		return Document{}, false, wrapIO("commit document", err)
	}
	return doc, inserted, nil
}

func (s *Store) GetDocument(ctx context.Context, name string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentSelectColumns+` FROM documents WHERE name = ?`, name)
	doc, err := scanDocument(row)
	if err != nil {
		return Document{}, wrapNotFound(fmt.Sprintf("document %q", name), err)
	}
	return doc, nil
}

// ListDocuments returns documents ordered by name without their HTML body.
func (s *Store) ListDocuments(ctx context.Context, opts ListOptions) ([]Document, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}

	query := `SELECT ` + documentSummaryColumns + ` FROM documents`
	args := make([]any, 0, 2)
	if opts.Prefix != "" {
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(opts.Prefix)+"%")
	}
	query += ` ORDER BY name LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapIO("list documents", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, wrapIO("scan document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapIO("list documents", err)
	}
	return docs, nil
}

func (s *Store) DeleteDocument(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return wrapIO("delete document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapIO("delete document", err)
	}
	if n == 0 {
		return fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(input_bytes), 0), COALESCE(SUM(sanitized_bytes), 0)
		FROM documents
	`).Scan(&st.Documents, &st.InputBytes, &st.SanitizedBytes)
	if err != nil {
		return Stats{}, wrapIO("stats", err)
	}
	return st, nil
}
