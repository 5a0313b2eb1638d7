package docs

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tengjizhang/scrub/internal/store"
)

const maxNameBytes = 128

// SafeName derives a storage key from user input. Accents are folded to
// their base letters, whitespace becomes '-', and anything outside
// [A-Za-z0-9._-] is dropped.
func SafeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name", store.ErrMissingField)
	}
	if trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("%w: name %q is reserved", store.ErrInvalidInput, trimmed)
	}

	// Transformers carry state, so each call builds its own chain.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: name: %v", store.ErrInvalidInput, err)
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastDash := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastDash {
				b.WriteByte('-')
			}
			lastDash = true
		case isNameRune(r):
			b.WriteRune(r)
			lastDash = false
		}
	}

	name := strings.TrimLeft(b.String(), ".-")
	if len(name) > maxNameBytes {
		name = name[:maxNameBytes]
	}
	if name == "" {
		return "", fmt.Errorf("%w: name %q has no usable characters", store.ErrMissingField, raw)
	}
	return name, nil
}

func isNameRune(r rune) bool {
	return r == '.' || r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// WithSuffix appends "-" and suffix to a name returned by SafeName,
// shortening the name so the result stays within the length cap. suffix
// must already consist of name characters.
func WithSuffix(name, suffix string) string {
	keep := maxNameBytes - len(suffix) - 1
	if keep < 0 {
		keep = 0
	}
	if len(name) > keep {
		name = name[:keep]
	}
	name = strings.TrimRight(name, "-")
	if name == "" {
		return suffix
	}
	return name + "-" + suffix
}
