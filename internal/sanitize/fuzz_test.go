package sanitize

import (
	"strings"
	"testing"
)

var seedCorpus = []string{
	"",
	"plain text",
	`<h1>Hello</h1><script>alert('x')</script>`,
	`<img src=x onerror="alert(1)">`,
	`<a href="javascript:alert(1)">hi</a>`,
	`<div onclick="x()">Click</div>`,
	`<p>unterminated`,
	`<b><i>x</b></i>`,
	`1 < 2 & 3 > 0 &amp; &lt;`,
	`<a title='"q" <x> &'>t</a>`,
	`<a href="&#106;avascript:x">x</a>`,
	`<a href="https://e.com/?a=1&b=2">x</a>`,
	`<!--[if IE]><script>x</script><![endif]-->`,
	`<script><script></script>x</script>y`,
	`<a href="x" <b>bold</b>`,
	`</div`,
	`<p/>x<br>y<hr/>`,
	`<!DOCTYPE html><?xml?>`,
	`&amp<x>;`,
	"<a title=\"a\nb\">x</a>",
	`<<<>>>`,
}

// checkOutput checks the structural properties of sanitized output and
// reports the first violation.
func checkOutput(t *testing.T, p *Policy, input, out string) {
	t.Helper()
	var stack []string
	for _, tok := range Tokenize(out).all() {
		switch tok.Type {
		case TextToken:
			if strings.ContainsAny(tok.Data, "<>") {
				t.Fatalf("unescaped markup in text %q\ninput: %q\noutput: %q", tok.Data, input, out)
			}
		case CommentToken:
			t.Fatalf("comment in output\ninput: %q\noutput: %q", input, out)
		case OpenTagToken:
			if !p.Allows(tok.Data) {
				t.Fatalf("disallowed tag %q\ninput: %q\noutput: %q", tok.Data, input, out)
			}
			for _, a := range tok.Attrs {
				if !p.AllowsAttr(tok.Data, a.Name) {
					t.Fatalf("disallowed attribute %q on %q\ninput: %q\noutput: %q", a.Name, tok.Data, input, out)
				}
				if isURLAttr(a.Name) && !p.safeURL(a.Value) {
					t.Fatalf("unsafe url %q\ninput: %q\noutput: %q", a.Value, input, out)
				}
			}
			if !tok.SelfClosing && !isVoidElement(tok.Data) {
				stack = append(stack, tok.Data)
			}
		case CloseTagToken:
			if len(stack) == 0 || stack[len(stack)-1] != tok.Data {
				t.Fatalf("unbalanced close %q\ninput: %q\noutput: %q", tok.Data, input, out)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed tags %v\ninput: %q\noutput: %q", stack, input, out)
	}
}

func FuzzSanitize(f *testing.F) {
	for _, s := range seedCorpus {
		f.Add(s)
	}
	p := DefaultPolicy()
	f.Fuzz(func(t *testing.T, input string) {
		out := Sanitize(input, p)
		checkOutput(t, p, input, out)
		if again := Sanitize(out, p); again != out {
			t.Fatalf("not idempotent\ninput: %q\nonce:  %q\ntwice: %q", input, out, again)
		}
		if !strings.Contains(strings.ToLower(input), "</script") {
			if got := Sanitize("<script>"+input, p); got != "" {
				t.Fatalf("script body leaked: %q", got)
			}
		}
	})
}

func FuzzEncode(f *testing.F) {
	for _, s := range seedCorpus {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		out := Encode(input)
		if strings.ContainsAny(out, `<>"'`) {
			t.Fatalf("structural character survived: %q", out)
		}
		for i := strings.IndexByte(out, '&'); i >= 0; {
			rest := out[i:]
			ok := false
			for _, ent := range []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"} {
				if strings.HasPrefix(rest, ent) {
					ok = true
					break
				}
			}
			if !ok {
				t.Fatalf("bare ampersand at %d in %q", i, out)
			}
			next := strings.IndexByte(out[i+1:], '&')
			if next < 0 {
				break
			}
			i += next + 1
		}
	})
}
