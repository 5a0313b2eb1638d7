package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scrub.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}

func mustPutDocument(t *testing.T, store *Store, name, html string) Document {
	t.Helper()
	doc, _, err := store.PutDocument(context.Background(), PutDocumentInput{
		Name:           name,
		HTML:           html,
		InputBytes:     len(html),
		SanitizedBytes: len(html),
	})
	if err != nil {
		t.Fatalf("put document %q: %v", name, err)
	}
	return doc
}
