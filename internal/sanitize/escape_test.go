package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"plain":               "plain",
		"<b>hi & bye</b>":     "&lt;b&gt;hi &amp; bye&lt;/b&gt;",
		`"quoted" 'single'`:   "&quot;quoted&quot; &#39;single&#39;",
		"&amp; already":       "&amp;amp; already",
		"<script>x</script>":  "&lt;script&gt;x&lt;/script&gt;",
		"unicode ✓ stays put": "unicode ✓ stays put",
	}
	for in, want := range tests {
		assert.Equal(t, want, Encode(in), in)
	}
}

func TestCharRefLen(t *testing.T) {
	tests := map[string]int{
		"&amp;":     5,
		"&amp;rest": 5,
		"&copy;":    6,
		"&#39;":     5,
		"&#x27;":    6,
		"&#X1F600;": 9,
		"&":         0,
		"&;":        0,
		"&#;":       0,
		"&#x;":      0,
		"&#12a;":    0,
		"&qqq;":     0,
		"&amp":      0,
		"&a b;":     0,
		"& amp;":    0,
	}
	for in, want := range tests {
		assert.Equal(t, want, charRefLen(in), in)
	}
}

func TestEscapeAttr(t *testing.T) {
	assert.Equal(t, `a &quot;b&quot; &lt;c&gt; &amp; d&#39;e it's`, escapeAttr(`a "b" <c> & d&#39;e it's`))
	assert.Equal(t, `a "b"`, escapeText(`a "b"`))
}
