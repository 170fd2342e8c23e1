package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/plsleave/internal/model"
	"github.com/sakif/plsleave/internal/repository"
)

// compile-time check that *DB implements repository.SettingsStore
var _ repository.SettingsStore = (*DB)(nil)

// Get returns the stored settings for the given email.
// The second return value is false when no record exists — the caller
// applies the default in that case; this layer stores facts, not policy.
func (db *DB) Get(ctx context.Context, email string) (model.Settings, bool, error) {
	var s model.Settings

	err := db.conn.QueryRowContext(ctx,
		`SELECT motion_enabled FROM settings WHERE user_email = ?`,
		email,
	).Scan(&s.MotionEnabled)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Settings{}, false, nil
		}
		return model.Settings{}, false, fmt.Errorf("sqlite: getting settings for %s: %w", email, err)
	}

	return s, true, nil
}

// Put overwrites the settings for the given email unconditionally.
// ON CONFLICT DO UPDATE makes this a single atomic upsert — last write wins.
func (db *DB) Put(ctx context.Context, email string, settings model.Settings) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO settings (user_email, motion_enabled, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_email) DO UPDATE SET
			motion_enabled = excluded.motion_enabled,
			updated_at     = excluded.updated_at`,
		email,
		settings.MotionEnabled,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting settings for %s: %w", email, err)
	}
	return nil
}
