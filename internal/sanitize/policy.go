package sanitize

import (
	"sort"
	"strings"
	"sync"
)

// GlobalAttrs is the AllowedTags key whose attributes are permitted on every
// allowed tag.
const GlobalAttrs = "*"

var defaultSchemes = []string{"http", "https", "mailto"}

// PolicyConfig is the mutable description a Policy is built from. It is
// usually decoded from the [policy] table of the config file.
type PolicyConfig struct {
	// AllowedTags maps a tag name to the attribute names kept on it.
	AllowedTags map[string][]string `json:"allowed_tags"`
	// StripContent lists tags removed together with everything inside them.
	StripContent []string `json:"strip_content"`
	// AllowedSchemes lists URL schemes kept in URL attributes. Nil means
	// http, https and mailto. Relative URLs are always kept.
	AllowedSchemes []string `json:"allowed_schemes"`
}

// Policy is an immutable whitelist. Build it once and share it freely; none
// of its methods mutate it.
type Policy struct {
	tags    map[string]map[string]struct{}
	global  map[string]struct{}
	strip   map[string]struct{}
	schemes map[string]struct{}
}

// NewPolicy normalizes cfg into a Policy. Names are matched
// case-insensitively. A tag listed both as allowed and as strip-content is
// stripped.
func NewPolicy(cfg PolicyConfig) *Policy {
	p := &Policy{
		tags:    make(map[string]map[string]struct{}, len(cfg.AllowedTags)),
		global:  make(map[string]struct{}),
		strip:   toSet(cfg.StripContent),
		schemes: toSet(cfg.AllowedSchemes),
	}
	if cfg.AllowedSchemes == nil {
		p.schemes = toSet(defaultSchemes)
	}
	for tag, attrs := range cfg.AllowedTags {
		tag = normalizeName(tag)
		if tag == "" {
			continue
		}
		if tag == GlobalAttrs {
			for k := range toSet(attrs) {
				p.global[k] = struct{}{}
			}
			continue
		}
		set, ok := p.tags[tag]
		if !ok {
			set = make(map[string]struct{}, len(attrs))
			p.tags[tag] = set
		}
		for k := range toSet(attrs) {
			set[k] = struct{}{}
		}
	}
	for tag := range p.strip {
		delete(p.tags, tag)
	}
	return p
}

var defaultPolicy = sync.OnceValue(func() *Policy {
	return NewPolicy(DefaultPolicyConfig())
})

// DefaultPolicy returns the shared built-in policy: common formatting, list,
// table and link markup, with script-capable containers stripped wholesale.
func DefaultPolicy() *Policy {
	return defaultPolicy()
}

// DefaultPolicyConfig returns a fresh copy of the configuration behind
// DefaultPolicy, suitable as a starting point for custom policies.
func DefaultPolicyConfig() PolicyConfig {
	tags := map[string][]string{
		"a":          {"href", "title", "rel"},
		"abbr":       {"title"},
		"blockquote": {"cite"},
		"q":          {"cite"},
		"ol":         {"start"},
		"td":         {"colspan", "rowspan"},
		"th":         {"colspan", "rowspan", "scope"},
	}
	for _, tag := range []string{
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "div", "span",
		"b", "i", "em", "strong", "u", "s", "del", "ins", "small", "mark", "sub", "sup",
		"ul", "li", "dl", "dt", "dd",
		"cite", "code", "pre", "kbd", "samp",
		"table", "caption", "thead", "tbody", "tfoot", "tr",
		"figure", "figcaption",
	} {
		tags[tag] = nil
	}
	return PolicyConfig{
		AllowedTags: tags,
		StripContent: []string{
			"script", "style", "iframe", "object", "applet", "noscript", "noembed",
			"noframes", "frameset", "frame", "template", "textarea", "select",
			"svg", "math", "xmp", "plaintext",
		},
		AllowedSchemes: append([]string(nil), defaultSchemes...),
	}
}

// Allows reports whether tag is kept in output.
func (p *Policy) Allows(tag string) bool {
	_, ok := p.tags[normalizeName(tag)]
	return ok
}

// AllowsAttr reports whether attr survives name filtering on tag. URL
// attributes may still be dropped by the scheme check.
func (p *Policy) AllowsAttr(tag, attr string) bool {
	attrs, ok := p.tags[normalizeName(tag)]
	if !ok {
		return false
	}
	attr = normalizeName(attr)
	if _, ok := attrs[attr]; ok {
		return true
	}
	_, ok = p.global[attr]
	return ok
}

// Strips reports whether tag is discarded with its whole subtree.
func (p *Policy) Strips(tag string) bool {
	_, ok := p.strip[normalizeName(tag)]
	return ok
}

// AllowsScheme reports whether a URL with the given scheme is kept.
func (p *Policy) AllowsScheme(scheme string) bool {
	_, ok := p.schemes[normalizeName(scheme)]
	return ok
}

// Config returns the normalized configuration of p with sorted slices.
func (p *Policy) Config() PolicyConfig {
	cfg := PolicyConfig{
		AllowedTags:    make(map[string][]string, len(p.tags)+1),
		StripContent:   sortedKeys(p.strip),
		AllowedSchemes: sortedKeys(p.schemes),
	}
	for tag, attrs := range p.tags {
		cfg.AllowedTags[tag] = sortedKeys(attrs)
	}
	if len(p.global) > 0 {
		cfg.AllowedTags[GlobalAttrs] = sortedKeys(p.global)
	}
	return cfg
}

// filterAttrs keeps whitelisted attributes in source order and then drops
// URL attributes with a disallowed scheme.
func (p *Policy) filterAttrs(tag string, attrs []Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	allowed := p.tags[tag]
	kept := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		_, ok := allowed[a.Name]
		if !ok {
			_, ok = p.global[a.Name]
		}
		if !ok {
			continue
		}
		if isURLAttr(a.Name) && !p.safeURL(a.Value) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = normalizeName(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
