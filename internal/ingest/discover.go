package ingest

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/tengjizhang/scrub/internal/store"
)

// NormalizeURL defaults a missing scheme to https and requires a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: feed url", store.ErrMissingField)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: feed url: %v", store.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: feed url scheme %q", store.ErrInvalidInput, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: feed url %q has no host", store.ErrInvalidInput, raw)
	}
	return u.String(), nil
}

// discoverFeedCandidates returns the absolute URLs of feeds advertised by
// <link rel="alternate"> elements, in document order.
func discoverFeedCandidates(body []byte, base *url.URL) []string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var links []*html.Node
	resolvedBase := base
	baseSeen := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "base":
				if href := strings.TrimSpace(attr(n, "href")); href != "" && !baseSeen {
					baseSeen = true
					if u, err := url.Parse(href); err == nil {
						resolvedBase = base.ResolveReference(u)
					}
				}
			case "link":
				links = append(links, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	out := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, n := range links {
		href, ok := feedLinkHref(n)
		if !ok {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := resolvedBase.ResolveReference(u).String()
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

func feedLinkHref(n *html.Node) (string, bool) {
	if !hasToken(attr(n, "rel"), "alternate") {
		return "", false
	}
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return "", false
	}
	typ := strings.ToLower(strings.TrimSpace(attr(n, "type")))
	if !isFeedLinkType(typ, href) {
		return "", false
	}
	// WordPress advertises its REST API as application/json.
	if typ == "application/json" && strings.Contains(strings.ToLower(href), "/wp-json/") {
		return "", false
	}
	return href, true
}

func isFeedLinkType(typ, href string) bool {
	switch typ {
	case "application/rss+xml", "application/atom+xml", "application/feed+json", "application/json", "application/xml", "text/xml":
		return true
	case "":
	default:
		return strings.Contains(typ, "rss") || strings.Contains(typ, "atom") || strings.Contains(typ, "feed")
	}

	lower := strings.ToLower(href)
	p := lower
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		p = strings.ToLower(u.Path)
	}
	switch path.Ext(p) {
	case ".rss", ".atom", ".xml", ".json":
		return true
	}
	return strings.Contains(lower, "/feed") || strings.Contains(lower, "rss") || strings.Contains(lower, "atom")
}

func hasToken(list, want string) bool {
	for _, tok := range strings.Fields(strings.ToLower(list)) {
		if tok == want {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
