package main

import (
	"database/sql"

	"github.com/hpungsan/rolo/internal/config"
	"github.com/hpungsan/rolo/internal/db"
	"github.com/hpungsan/rolo/internal/logger"
	"github.com/hpungsan/rolo/internal/ops"
	"github.com/hpungsan/rolo/internal/store"
)

// appEnv holds what every command needs. The database is opened on first
// use so that --help and --version never touch the storage file.
type appEnv struct {
	cfg  *config.Config
	lggr logger.Logger
	db   *sql.DB
	svc  *ops.Service
}

func newEnv(cfg *config.Config, lggr logger.Logger) *appEnv {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &appEnv{cfg: cfg, lggr: lggr}
}

// service returns the contact service, opening the book at path (or the
// configured database_path when path is empty) the first time.
func (e *appEnv) service(path string) (*ops.Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	if path == "" {
		path = e.cfg.DatabasePath
	}
	database, err := db.Init(path)
	if err != nil {
		return nil, err
	}
	e.lggr.Debugw("opened contact book", "path", path)
	e.db = database
	e.svc = ops.NewService(store.New(database, e.lggr), e.cfg, e.lggr)
	return e.svc, nil
}

// Close releases the database handle if one was opened.
func (e *appEnv) Close() {
	if e.db == nil {
		return
	}
	if err := e.db.Close(); err != nil {
		e.lggr.Warnw("failed to close database", "error", err)
	}
	e.db = nil
}
