package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

var encoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Encode escapes every structural character in text so it renders as
// literal text. It knows nothing about tags; existing entities are escaped
// too.
func Encode(text string) string {
	return encoder.Replace(text)
}

// longest named reference is &CounterClockwiseContourIntegral;
const maxCharRefLen = 40

func escapeText(s string) string {
	return escapeMarkup(s, false)
}

func escapeAttr(s string) string {
	return escapeMarkup(s, true)
}

// escapeMarkup escapes '<', '>' and any '&' that does not start a valid
// character reference, plus '"' when quote is set. Valid references are left
// alone so already-escaped input passes through unchanged.
func escapeMarkup(s string, quote bool) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	last := 0
	for i := 0; i < len(s); i++ {
		var repl string
		switch s[i] {
		case '<':
			repl = "&lt;"
		case '>':
			repl = "&gt;"
		case '"':
			if !quote {
				continue
			}
			repl = "&quot;"
		case '&':
			if n := charRefLen(s[i:]); n > 0 {
				i += n - 1
				continue
			}
			repl = "&amp;"
		default:
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(repl)
		last = i + 1
	}
	b.WriteString(s[last:])
	return b.String()
}

// charRefLen returns the length of the character reference at the start of
// s, or 0 when s does not start with one. Only semicolon-terminated forms
// count.
func charRefLen(s string) int {
	limit := len(s)
	if limit > maxCharRefLen {
		limit = maxCharRefLen
	}
	end := strings.IndexByte(s[:limit], ';')
	if end < 2 {
		return 0
	}
	body := s[1:end]
	if body[0] == '#' {
		digits := body[1:]
		hex := false
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			hex = true
		}
		if len(digits) == 0 {
			return 0
		}
		for i := 0; i < len(digits); i++ {
			c := digits[i]
			if isDigit(c) || hex && isHexLetter(c) {
				continue
			}
			return 0
		}
		return end + 1
	}
	for i := 0; i < len(body); i++ {
		if !isNameStart(body[i]) && !isDigit(body[i]) {
			return 0
		}
	}
	ref := s[:end+1]
	if html.UnescapeString(ref) == ref {
		return 0
	}
	return end + 1
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexLetter(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
