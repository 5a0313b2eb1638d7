// Package opml reads feed subscription lists for bulk import.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tengjizhang/scrub/internal/store"
)

type document struct {
	XMLName xml.Name `xml:"opml"`
	Body    struct {
		Outlines []outline `xml:"outline"`
	} `xml:"body"`
}

type outline struct {
	Text        string    `xml:"text,attr"`
	XMLURL      string    `xml:"xmlUrl,attr"`
	XMLURLLower string    `xml:"xmlurl,attr"`
	Outlines    []outline `xml:"outline"`
}

func (o outline) feedURL() string {
	if v := strings.TrimSpace(o.XMLURL); v != "" {
		return v
	}
	return strings.TrimSpace(o.XMLURLLower)
}

// ReadFile reads the feed list at path; "-" means stdin.
func ReadFile(path string) ([]string, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opml: %w: %w", store.ErrIO, err)
	}
	defer f.Close()
	return Read(f)
}

// Read returns the unique feed URLs of every outline, nested ones
// included, in document order.
func Read(r io.Reader) ([]string, error) {
	var doc document
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse opml: %v", store.ErrInvalidInput, err)
	}

	seen := make(map[string]struct{})
	urls := make([]string, 0)
	var walk func([]outline)
	walk = func(outlines []outline) {
		for _, o := range outlines {
			if u := o.feedURL(); u != "" {
				if _, dup := seen[u]; !dup {
					seen[u] = struct{}{}
					urls = append(urls, u)
				}
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)
	return urls, nil
}
