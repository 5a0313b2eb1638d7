package ingest

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tengjizhang/scrub/internal/config"
	"github.com/tengjizhang/scrub/internal/docs"
	"github.com/tengjizhang/scrub/internal/logging"
	"github.com/tengjizhang/scrub/internal/store"
)

func newTestImporter(t *testing.T) (*Importer, *docs.Service) {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "scrub.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	logger := logging.Discard()
	svc := docs.NewService(store.NewStore(db), docs.Options{Logger: logger})
	cfg := config.Config{
		HTTPTimeout:      5 * time.Second,
		FetchConcurrency: 4,
		UserAgent:        "scrub-test/1.0",
	}
	return NewImporter(svc, cfg, logger), svc
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
