package sanitize

import "strings"

// TokenType identifies the kind of a Token.
type TokenType int

const (
	TextToken TokenType = iota
	OpenTagToken
	CloseTagToken
	CommentToken
)

func (t TokenType) String() string {
	switch t {
	case TextToken:
		return "Text"
	case OpenTagToken:
		return "OpenTag"
	case CloseTagToken:
		return "CloseTag"
	case CommentToken:
		return "Comment"
	}
	return "Invalid"
}

// Attribute is a name/value pair from an open tag. Name is lower-cased,
// Value is the raw source text without surrounding quotes.
type Attribute struct {
	Name  string
	Value string
}

// Token is one unit of markup. Data holds the text, the comment body, or the
// lower-cased tag name.
type Token struct {
	Type        TokenType
	Data        string
	Attrs       []Attribute
	SelfClosing bool
}

// Tokenizer splits markup into tokens in a single left-to-right pass. It
// never fails: anything that does not parse as a tag or comment comes back
// as text.
type Tokenizer struct {
	src string
	pos int
}

// Tokenize returns a tokenizer positioned at the start of input.
func Tokenize(input string) *Tokenizer {
	return &Tokenizer{src: input}
}

// Next returns the next token, or false once input is exhausted.
func (z *Tokenizer) Next() (Token, bool) {
	if z.pos >= len(z.src) {
		return Token{}, false
	}
	if z.src[z.pos] != '<' {
		return z.text(z.pos), true
	}
	rest := z.src[z.pos+1:]
	switch {
	case strings.HasPrefix(rest, "!--"):
		return z.comment(), true
	case strings.HasPrefix(rest, "/"):
		return z.closeTag(), true
	case len(rest) > 0 && isNameStart(rest[0]):
		return z.openTag(), true
	}
	// A stray '<' is ordinary text up to the next '<'.
	return z.text(z.pos + 1), true
}

// all drains the tokenizer.
func (z *Tokenizer) all() []Token {
	var out []Token
	for {
		tok, ok := z.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// text emits src[z.pos:] up to the first '<' at or after from.
func (z *Tokenizer) text(from int) Token {
	end := len(z.src)
	if i := strings.IndexByte(z.src[from:], '<'); i >= 0 {
		end = from + i
	}
	tok := Token{Type: TextToken, Data: z.src[z.pos:end]}
	z.pos = end
	return tok
}

func (z *Tokenizer) comment() Token {
	body := z.pos + len("<!--")
	end := strings.Index(z.src[body:], "-->")
	if end < 0 {
		tok := Token{Type: CommentToken, Data: z.src[body:]}
		z.pos = len(z.src)
		return tok
	}
	tok := Token{Type: CommentToken, Data: z.src[body : body+end]}
	z.pos = body + end + len("-->")
	return tok
}

func (z *Tokenizer) closeTag() Token {
	start := z.pos
	nameStart := start + len("</")
	end := strings.IndexByte(z.src[nameStart:], '>')
	if end < 0 {
		return z.literal(start, len(z.src))
	}
	end += nameStart
	i := nameStart
	for i < end && isNameChar(z.src[i]) {
		i++
	}
	z.pos = end + 1
	return Token{Type: CloseTagToken, Data: strings.ToLower(z.src[nameStart:i])}
}

func (z *Tokenizer) openTag() Token {
	src := z.src
	start := z.pos
	i := start + 1
	for i < len(src) && isNameChar(src[i]) {
		i++
	}
	tok := Token{Type: OpenTagToken, Data: strings.ToLower(src[start+1 : i])}
	var seen attrIndex

	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return z.literal(start, len(src))
		}
		switch src[i] {
		case '>':
			z.pos = i + 1
			return tok
		case '/':
			if i+1 < len(src) && src[i+1] == '>' {
				tok.SelfClosing = true
				z.pos = i + 2
				return tok
			}
			i++
			continue
		case '<':
			return z.literal(start, i)
		}

		nameEnd := i + 1
		for nameEnd < len(src) && !isAttrNameEnd(src[nameEnd]) {
			nameEnd++
		}
		name := strings.ToLower(src[i:nameEnd])
		value := ""
		i = skipSpace(src, nameEnd)
		if i < len(src) && src[i] == '=' {
			i = skipSpace(src, i+1)
			if i >= len(src) {
				return z.literal(start, len(src))
			}
			switch q := src[i]; q {
			case '"', '\'':
				end := strings.IndexByte(src[i+1:], q)
				if end < 0 {
					return z.literal(start, len(src))
				}
				value = src[i+1 : i+1+end]
				i += end + 2
			default:
				end := i
				for end < len(src) && !isSpace(src[end]) && src[end] != '>' {
					end++
				}
				value = src[i:end]
				i = end
			}
		}
		tok.Attrs = seen.set(tok.Attrs, name, value)
	}
}

// literal turns the bytes of a malformed construct into text and resumes
// scanning at stop.
func (z *Tokenizer) literal(start, stop int) Token {
	z.pos = stop
	return Token{Type: TextToken, Data: z.src[start:stop]}
}

// attrIndexThreshold is the attribute count past which duplicate lookups
// switch from a scan to a map.
const attrIndexThreshold = 8

// attrIndex tracks attribute positions within one open tag so duplicate
// detection stays linear in the number of attributes.
type attrIndex map[string]int

// set applies last-wins for duplicate names while keeping the position of
// the first occurrence.
func (m *attrIndex) set(attrs []Attribute, name, value string) []Attribute {
	if *m == nil {
		for i := range attrs {
			if attrs[i].Name == name {
				attrs[i].Value = value
				return attrs
			}
		}
		attrs = append(attrs, Attribute{Name: name, Value: value})
		if len(attrs) > attrIndexThreshold {
			*m = make(attrIndex, len(attrs)*2)
			for i, a := range attrs {
				(*m)[a.Name] = i
			}
		}
		return attrs
	}
	if i, ok := (*m)[name]; ok {
		attrs[i].Value = value
		return attrs
	}
	(*m)[name] = len(attrs)
	return append(attrs, Attribute{Name: name, Value: value})
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isNameStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || '0' <= c && c <= '9' || c == '-'
}

func isAttrNameEnd(c byte) bool {
	return isSpace(c) || c == '/' || c == '>' || c == '=' || c == '<'
}
