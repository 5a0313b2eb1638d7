// Package sanitize turns untrusted markup into a safe subset described by a
// Policy.
//
// Input is tokenized in one pass and filtered token by token against an
// explicit stack of open allowed tags. Tags outside the whitelist are
// unwrapped: their markers disappear and their children are processed in
// place. Strip-content tags such as script disappear together with
// everything inside them. Text is always escaped, comments are always
// dropped, and tags still open at end of input are closed in LIFO order.
//
// Sanitize and Encode are pure and safe for concurrent use.
package sanitize

import "strings"

// Sanitize filters input through p and returns the serialized result. A nil
// p means DefaultPolicy. It never fails; malformed markup degrades to
// escaped text or nothing.
func Sanitize(input string, p *Policy) string {
	if p == nil {
		p = DefaultPolicy()
	}
	f := &filter{policy: p}
	f.out.Grow(len(input))
	z := Tokenize(input)
	for {
		tok, ok := z.Next()
		if !ok {
			break
		}
		f.handle(tok)
	}
	f.closeAll()
	return f.out.String()
}

type filter struct {
	policy *Policy
	out    strings.Builder
	open   []string

	// strip is the tag whose subtree is being discarded; suppress counts
	// nested open tags of that name.
	strip    string
	suppress int
}

func (f *filter) handle(tok Token) {
	if f.suppress > 0 {
		f.suppressed(tok)
		return
	}
	switch tok.Type {
	case TextToken:
		f.out.WriteString(escapeText(tok.Data))
	case OpenTagToken:
		f.openTag(tok)
	case CloseTagToken:
		f.closeTag(tok.Data)
	case CommentToken:
	}
}

func (f *filter) suppressed(tok Token) {
	switch tok.Type {
	case OpenTagToken:
		if tok.Data == f.strip {
			f.suppress++
		}
	case CloseTagToken:
		if tok.Data == f.strip {
			f.suppress--
			if f.suppress == 0 {
				f.strip = ""
			}
		}
	}
}

func (f *filter) openTag(tok Token) {
	name := tok.Data
	if f.policy.Strips(name) {
		// Browsers ignore the self-closing flag on non-void elements, so a
		// <script/> still opens a script body.
		if !isVoidElement(name) {
			f.strip = name
			f.suppress = 1
		}
		return
	}
	if !f.policy.Allows(name) {
		return
	}

	f.out.WriteByte('<')
	f.out.WriteString(name)
	for _, a := range f.policy.filterAttrs(name, tok.Attrs) {
		f.out.WriteByte(' ')
		f.out.WriteString(a.Name)
		f.out.WriteString(`="`)
		f.out.WriteString(escapeAttr(a.Value))
		f.out.WriteByte('"')
	}
	if tok.SelfClosing {
		f.out.WriteString(" />")
		return
	}
	f.out.WriteByte('>')
	if !isVoidElement(name) {
		f.open = append(f.open, name)
	}
}

// closeTag only closes the innermost open tag. Anything else is a stray
// close tag and is dropped.
func (f *filter) closeTag(name string) {
	n := len(f.open)
	if n == 0 || f.open[n-1] != name {
		return
	}
	f.open = f.open[:n-1]
	f.writeClose(name)
}

func (f *filter) closeAll() {
	for i := len(f.open) - 1; i >= 0; i-- {
		f.writeClose(f.open[i])
	}
	f.open = f.open[:0]
}

func (f *filter) writeClose(name string) {
	f.out.WriteString("</")
	f.out.WriteString(name)
	f.out.WriteByte('>')
}

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
