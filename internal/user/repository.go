package user

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ByEmail fetches a single live user row.  The caller supplies a context
// so the lookup respects request deadlines.  sql.ErrNoRows passes through
// untouched; the login handler treats it the same as a bad password.
func ByEmail(ctx context.Context, db *sqlx.DB, email string) (*Record, error) {
	const q = `
        SELECT id, email, password_hash, created_at, deleted_at
        FROM   user
        WHERE  email = ?
          AND  deleted_at IS NULL
        LIMIT  1;`
	var rec Record

	if err := db.GetContext(ctx, &rec, q, email); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Migrate creates the user table when missing.  Idempotent; called once
// at boot against the main database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	const ddl = `
	    CREATE TABLE IF NOT EXISTS user (
	        id             INTEGER PRIMARY KEY AUTOINCREMENT,
	        email          TEXT NOT NULL UNIQUE,
	        password_hash  TEXT NOT NULL,
	        created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	        deleted_at     TIMESTAMP
	    )`
	_, err := db.ExecContext(ctx, ddl)
	return err
}
