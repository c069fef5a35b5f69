// internal/session/store.go
//
// SQLite-backed session store.
//
// Context
// -------
// Sessions live in the dedicated session database (its file path and pool
// size come from the config layer).  A session is an opaque 32-byte random
// token handed to the browser; only the SHA-256 of the token is persisted,
// so a leaked database cannot be replayed against the API.  Expiry is
// computed once at creation from the configured TTL and enforced on every
// lookup.
//
// Validate is the hot path, so verified sessions sit in a small LRU
// (cache.go) and concurrent lookups of the same token collapse through
// singleflight into one SELECT.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/dps/internal/metrics"
)

var (
	// ErrNotFound means the token does not match any stored session.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired means the session existed but its TTL has passed.
	ErrExpired = errors.New("session: expired")
)

// Session is the validated record returned to handlers.  The raw token is
// not echoed back; callers already hold it.
type Session struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Store issues, validates, and revokes sessions against one *sqlx.DB.
// Safe for concurrent use.
type Store struct {
	db    *sqlx.DB
	ttl   time.Duration
	cache *lru
	group singleflight.Group
}

// cacheSize bounds the validated-session LRU.  Sized for one process
// serving a single platform instance, not a fleet.
const cacheSize = 1024

// New returns a Store whose sessions expire ttlSeconds after creation.
func New(db *sqlx.DB, ttlSeconds int) *Store {
	return &Store{
		db:    db,
		ttl:   time.Duration(ttlSeconds) * time.Second,
		cache: newLRU(cacheSize),
	}
}

// Migrate creates the sessions table when missing.  Idempotent; called
// once at boot.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
	    CREATE TABLE IF NOT EXISTS session (
	        token_hash  TEXT PRIMARY KEY,
	        user_id     INTEGER NOT NULL,
	        created_at  TIMESTAMP NOT NULL,
	        expires_at  TIMESTAMP NOT NULL
	    )`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("session: migrate: %w", err)
	}
	return nil
}

// Create mints a fresh token for userID and persists its hash.  The raw
// token is returned exactly once; it cannot be recovered later.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("session: token entropy: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	const q = `INSERT INTO session (token_hash, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, hashToken(token), userID, now, now.Add(s.ttl)); err != nil {
		return "", fmt.Errorf("session: insert: %w", err)
	}

	metrics.SessionsCreatedTotal.Inc()
	return token, nil
}

// Validate resolves a raw token to its live session.  Returns ErrNotFound
// for unknown tokens and ErrExpired for stale ones; expired rows are
// deleted opportunistically.
func (s *Store) Validate(ctx context.Context, token string) (*Session, error) {
	key := hashToken(token)

	if sess, ok := s.cache.get(key); ok {
		if time.Now().After(sess.ExpiresAt) {
			s.cache.remove(key)
			return nil, ErrExpired
		}
		return sess, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.lookup(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	sess := v.(*Session)
	if time.Now().After(sess.ExpiresAt) {
		s.deleteHash(ctx, key)
		return nil, ErrExpired
	}
	s.cache.add(key, sess)
	return sess, nil
}

func (s *Store) lookup(ctx context.Context, key string) (*Session, error) {
	const q = `SELECT user_id, created_at, expires_at FROM session WHERE token_hash = ?`
	var sess Session
	if err := s.db.GetContext(ctx, &sess, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: lookup: %w", err)
	}
	return &sess, nil
}

// Destroy revokes one session.  Revoking an unknown token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	key := hashToken(token)
	if err := s.deleteHash(ctx, key); err != nil {
		return err
	}
	metrics.SessionsDestroyedTotal.Inc()
	return nil
}

func (s *Store) deleteHash(ctx context.Context, key string) error {
	s.cache.remove(key)
	const q = `DELETE FROM session WHERE token_hash = ?`
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// PurgeExpired removes every stale row and returns the count.  Meant for
// a periodic sweep from main.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM session WHERE expires_at < ?`
	res, err := s.db.ExecContext(ctx, q, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("session: purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Count reports live sessions, feeding the active-session gauge.
func (s *Store) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM session WHERE expires_at >= ?`
	var n int64
	if err := s.db.GetContext(ctx, &n, q, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("session: count: %w", err)
	}
	return n, nil
}

// hashToken is the only transform between wire tokens and storage keys.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
