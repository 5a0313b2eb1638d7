package cli

import (
	"database/sql"
	"log/slog"

	"github.com/tengjizhang/scrub/internal/config"
	"github.com/tengjizhang/scrub/internal/docs"
	"github.com/tengjizhang/scrub/internal/ingest"
	"github.com/tengjizhang/scrub/internal/store"
)

type App struct {
	cfg      config.Config
	db       *sql.DB
	store    *store.Store
	docs     *docs.Service
	importer *ingest.Importer
	logger   *slog.Logger
}

// NewApp wires the service graph. Without withDB the document service has
// no store and only the pure sanitize/encode operations are usable.
func NewApp(cfg config.Config, dbPath string, withDB bool, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{cfg: cfg, logger: logger}
	if withDB {
		cfg.DBPath = dbPath
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.store = store.NewStore(db)
		a.cfg = cfg
	}
	a.docs = docs.NewService(a.store, docs.Options{
		Policy:        cfg.Policy,
		MaxInputBytes: cfg.MaxInputBytes,
		Logger:        logger,
	})
	a.importer = ingest.NewImporter(a.docs, cfg, logger)
	return a, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
