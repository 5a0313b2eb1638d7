package docs

import (
	"path/filepath"
	"testing"

	"github.com/tengjizhang/scrub/internal/logging"
	"github.com/tengjizhang/scrub/internal/store"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "scrub.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return NewService(store.NewStore(db), opts)
}
