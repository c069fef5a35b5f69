// internal/user/model.go
//
// User row shape for the main database.  Password hashes are bcrypt; the
// plaintext never leaves the login handler's stack frame.
package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Record mirrors one row of the `user` table in the main database.
type Record struct {
	ID           int64      `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func (r *Record) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(plain)) == nil
}

// HashPassword produces a bcrypt hash at the default cost.  Used by
// account provisioning and by tests.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
