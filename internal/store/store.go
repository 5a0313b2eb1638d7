package store

import (
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const documentSelectColumns = `name, html, source, input_bytes, sanitized_bytes, created_at, updated_at`

const documentSummaryColumns = `name, '', source, input_bytes, sanitized_bytes, created_at, updated_at`

func scanDocument(scanner rowScanner) (Document, error) {
	var d Document
	var source sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(
		&d.Name,
		&d.HTML,
		&source,
		&d.InputBytes,
		&d.SanitizedBytes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Document{}, err
	}
	d.Source = source.String
	if t, err := parseDBTime(createdAt); err == nil {
		d.CreatedAt = t
	}
	if t, err := parseDBTime(updatedAt); err == nil {
		d.UpdatedAt = t
	}
	return d, nil
}
