package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/plsleave/internal/apperror"
	"github.com/sakif/plsleave/internal/model"
	"github.com/sakif/plsleave/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// FindOrCreate resolves a user by email, inserting on first login.
//
// ATOMIC CREATE-IF-ABSENT:
// The naive version — SELECT, then INSERT if no row — has a race window: two
// callbacks for a brand-new user arriving concurrently would both pass the
// SELECT and both try to INSERT. Instead we lean on the UNIQUE constraint:
//
//	INSERT ... ON CONFLICT(email) DO NOTHING
//
// Exactly one of the concurrent inserts lands; the other becomes a no-op.
// The SELECT afterwards returns the canonical row either way.
//
// Existing rows are deliberately left untouched — name/avatar captured at
// first login are never refreshed (see the model.User doc).
func (db *DB) FindOrCreate(ctx context.Context, user *model.User) error {
	if user.Email == "" {
		return apperror.ValidationFailed("email", "email must not be empty")
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, google_id, email, name, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		xid.New().String(),
		user.GoogleID,
		user.Email,
		user.Name,
		user.AvatarURL,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	// Read back the canonical row — ours if the insert landed, the existing
	// one if a row with this email was already there.
	stored, err := db.GetByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.Email, err)
	}

	*user = *stored
	return nil
}

// GetByEmail retrieves a user by their email address.
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, google_id, email, name, avatar_url, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.GoogleID,
		&u.Email,
		&u.Name,
		&u.AvatarURL,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", email, err)
	}

	return &u, nil
}
