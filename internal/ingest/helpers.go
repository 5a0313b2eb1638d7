package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// itemKey names an item that has no title: its GUID, its link, or a hash
// of its publication time.
func itemKey(item *gofeed.Item) string {
	if guid := strings.TrimSpace(item.GUID); guid != "" {
		return guid
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	stamp := ""
	if item.PublishedParsed != nil {
		stamp = item.PublishedParsed.UTC().Format(time.RFC3339Nano)
	}
	h := sha1.Sum([]byte(stamp))
	return "sha1-" + hex.EncodeToString(h[:8])
}

// itemBody is the item's content, or its description when it has none.
func itemBody(item *gofeed.Item) string {
	if body := strings.TrimSpace(item.Content); body != "" {
		return body
	}
	return strings.TrimSpace(item.Description)
}

// shortHash is a stable 8-hex-digit digest of key.
func shortHash(key string) string {
	h := sha1.Sum([]byte(key))
	return hex.EncodeToString(h[:4])
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
