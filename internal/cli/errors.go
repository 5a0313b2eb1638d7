package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/tengjizhang/scrub/internal/store"
)

const (
	exitInvalidInput = 2
	exitNotFound     = 3
	exitInternal     = 1
)

func ErrorExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, store.ErrInvalidInput):
		return exitInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error [%s]: %v", errorKind(err), err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, store.ErrMissingField):
		return "missing-field"
	case errors.Is(err, store.ErrTooLarge):
		return "too-large"
	case errors.Is(err, store.ErrInvalidInput):
		return "invalid-input"
	case errors.Is(err, store.ErrNotFound):
		return "not-found"
	case errors.Is(err, store.ErrIO):
		return "io"
	default:
		return "internal"
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
