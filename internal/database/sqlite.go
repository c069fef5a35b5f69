// Package database centralises sqlx connection helpers for the three
// SQLite files the auth API owns (main, collection, session).  The driver
// is mattn/go-sqlite3 with WAL journaling and foreign keys enabled through
// DSN parameters.
//
// Public entry points:
//
//	Open(path, poolSize)  – one pool for one database file.
//	OpenAll(cfg)          – the three configured pools in one call.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned pools when no
// longer needed.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yanizio/dps/internal/config"
)

// Open returns a *sqlx.DB for one SQLite file.  poolSize caps both open
// and idle connections, which is how the platform expresses per-database
// concurrency (SQLite holds a single writer; pool size 1 is the safe
// default the config layer hands out).  The parent directory is created
// when missing so a fresh checkout boots without manual setup.
func Open(path string, poolSize int) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database: create %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", path, err)
	}
	return db, nil
}

// Pools bundles the three per-concern handles so bootstrap code can pass
// them around as one value.
type Pools struct {
	Main       *sqlx.DB
	Collection *sqlx.DB
	Session    *sqlx.DB
}

// OpenAll opens the main, collection, and session databases at their
// configured paths and pool sizes.  On any failure the pools opened so
// far are closed before the error is returned.
func OpenAll(cfg *config.Store) (*Pools, error) {
	p := &Pools{}

	var err error
	if p.Main, err = Open(cfg.AuthAPISQLiteMainFilePath(), cfg.AuthAPISQLiteMainPoolSize()); err != nil {
		return nil, err
	}
	if p.Collection, err = Open(cfg.AuthAPISQLiteCollectionFilePath(), cfg.AuthAPISQLiteCollectionPoolSize()); err != nil {
		p.Main.Close()
		return nil, err
	}
	if p.Session, err = Open(cfg.AuthAPISQLiteSessionFilePath(), cfg.AuthAPISQLiteSessionPoolSize()); err != nil {
		p.Main.Close()
		p.Collection.Close()
		return nil, err
	}
	return p, nil
}

// Close shuts down every pool; nil members are skipped.
func (p *Pools) Close() {
	for _, db := range []*sqlx.DB{p.Main, p.Collection, p.Session} {
		if db != nil {
			db.Close()
		}
	}
}
