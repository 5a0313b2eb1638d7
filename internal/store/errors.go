package store

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrIO           = errors.New("storage failure")

	ErrMissingField = fmt.Errorf("missing field: %w", ErrInvalidInput)
	ErrTooLarge     = fmt.Errorf("input too large: %w", ErrInvalidInput)
)

func wrapNotFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return wrapIO(entity, err)
}

// wrapIO tags a driver error as a storage failure, keeping the cause.
func wrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}
