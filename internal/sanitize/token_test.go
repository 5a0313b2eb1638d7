package sanitize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) Token    { return Token{Type: TextToken, Data: s} }
func closing(s string) Token { return Token{Type: CloseTagToken, Data: s} }
func comment(s string) Token { return Token{Type: CommentToken, Data: s} }

func open(name string, attrs ...Attribute) Token {
	return Token{Type: OpenTagToken, Data: name, Attrs: attrs}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "text and tags",
			input: "a<b>c</b>",
			want:  []Token{text("a"), open("b"), text("c"), closing("b")},
		},
		{
			name:  "attribute forms",
			input: `<a href="x" title='y' data=z disabled>`,
			want: []Token{open("a",
				Attribute{Name: "href", Value: "x"},
				Attribute{Name: "title", Value: "y"},
				Attribute{Name: "data", Value: "z"},
				Attribute{Name: "disabled"},
			)},
		},
		{
			name:  "names are lower-cased",
			input: `<DIV CLASS="A">x</Div>`,
			want:  []Token{open("div", Attribute{Name: "class", Value: "A"}), text("x"), closing("div")},
		},
		{
			name:  "duplicate attribute keeps last value at first position",
			input: `<a title="1" href="h" title="2">`,
			want: []Token{open("a",
				Attribute{Name: "title", Value: "2"},
				Attribute{Name: "href", Value: "h"},
			)},
		},
		{
			name:  "spaces around equals",
			input: `<a href = "x">`,
			want:  []Token{open("a", Attribute{Name: "href", Value: "x"})},
		},
		{
			name:  "unquoted value keeps slash",
			input: `<a href=/x/>`,
			want:  []Token{open("a", Attribute{Name: "href", Value: "/x/"})},
		},
		{
			name:  "comment",
			input: "<!--x-->y",
			want:  []Token{comment("x"), text("y")},
		},
		{
			name:  "unterminated comment runs to end",
			input: "a<!-- abc <b>",
			want:  []Token{text("a"), comment(" abc <b>")},
		},
		{
			name:  "unterminated close tag is text",
			input: "x</div",
			want:  []Token{text("x"), text("</div")},
		},
		{
			name:  "close tag ignores trailing junk",
			input: "</script foo>",
			want:  []Token{closing("script")},
		},
		{
			name:  "empty close tag",
			input: "</>",
			want:  []Token{closing("")},
		},
		{
			name:  "stray less-than is text",
			input: "1 < 2",
			want:  []Token{text("1 "), text("< 2")},
		},
		{
			name:  "trailing less-than",
			input: "a<",
			want:  []Token{text("a"), text("<")},
		},
		{
			name:  "malformed tag resumes at next less-than",
			input: `<a href=x <b>t`,
			want:  []Token{text("<a href=x "), open("b"), text("t")},
		},
		{
			name:  "unterminated quote is text",
			input: `<a title="oops>rest`,
			want:  []Token{text(`<a title="oops>rest`)},
		},
		{
			name:  "unterminated tag is text",
			input: `<p class=x`,
			want:  []Token{text(`<p class=x`)},
		},
		{
			name:  "doctype is text",
			input: "<!DOCTYPE html>",
			want:  []Token{text("<!DOCTYPE html>")},
		},
		{
			name:  "processing instruction is text",
			input: "<?xml?>",
			want:  []Token{text("<?xml?>")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input).all())
		})
	}
}

func TestTokenize_SelfClosing(t *testing.T) {
	for _, input := range []string{"<br/>", "<br />", "<BR   />"} {
		toks := Tokenize(input).all()
		require.Len(t, toks, 1, input)
		assert.Equal(t, OpenTagToken, toks[0].Type, input)
		assert.Equal(t, "br", toks[0].Data, input)
		assert.True(t, toks[0].SelfClosing, input)
	}

	toks := Tokenize("<a/href=x>").all()
	require.Len(t, toks, 1)
	assert.False(t, toks[0].SelfClosing)
	assert.Equal(t, []Attribute{{Name: "href", Value: "x"}}, toks[0].Attrs)
}

func TestTokenize_DuplicateAttrsPastIndexThreshold(t *testing.T) {
	var b strings.Builder
	b.WriteString("<p")
	for i := 0; i < 3*attrIndexThreshold; i++ {
		fmt.Fprintf(&b, " a%d=%d", i, i)
	}
	b.WriteString(` a0="last" a20="again" a3="x">`)

	toks := Tokenize(b.String()).all()
	require.Len(t, toks, 1)
	attrs := toks[0].Attrs
	require.Len(t, attrs, 3*attrIndexThreshold)
	assert.Equal(t, Attribute{Name: "a0", Value: "last"}, attrs[0])
	assert.Equal(t, Attribute{Name: "a3", Value: "x"}, attrs[3])
	assert.Equal(t, Attribute{Name: "a20", Value: "again"}, attrs[20])
	assert.Equal(t, Attribute{Name: "a21", Value: "21"}, attrs[21])
}

func TestTokenize_ReconstructsLiteralText(t *testing.T) {
	// Text-only inputs must come back byte-for-byte.
	for _, input := range []string{
		"plain",
		"a < b > c",
		"<1>",
		"</div",
		`<a title="x`,
		"<<<",
	} {
		var got string
		for _, tok := range Tokenize(input).all() {
			require.Equal(t, TextToken, tok.Type, input)
			got += tok.Data
		}
		assert.Equal(t, input, got)
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "Text", TextToken.String())
	assert.Equal(t, "OpenTag", OpenTagToken.String())
	assert.Equal(t, "CloseTag", CloseTagToken.String())
	assert.Equal(t, "Comment", CommentToken.String())
	assert.Equal(t, "Invalid", TokenType(42).String())
}
