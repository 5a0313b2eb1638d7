package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

func isURLAttr(name string) bool {
	switch name {
	case "href", "src", "action", "formaction", "cite", "poster",
		"background", "longdesc", "usemap", "xlink:href":
		return true
	}
	return false
}

// safeURL reports whether raw is relative or uses an allowed scheme. The
// value is judged the way a browser would read it: entities decoded, and
// control characters and whitespace removed.
func (p *Policy) safeURL(raw string) bool {
	decoded := strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, html.UnescapeString(raw))
	decoded = strings.ToLower(decoded)
	if decoded == "" {
		return true
	}
	u, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	return p.AllowsScheme(u.Scheme)
}
