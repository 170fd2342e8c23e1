package repository

import (
	"context"

	"github.com/sakif/plsleave/internal/model"
)

// UserRepository is the persisted directory mapping an external identity
// (email, Google subject id) to an internal user record.
type UserRepository interface {
	// FindOrCreate resolves the user with user.Email, creating the record on
	// first login. Creation happens exactly once per distinct email, enforced
	// by the storage layer's uniqueness guarantee rather than a
	// check-then-insert sequence (two concurrent first logins must still
	// produce a single row). Existing rows are never mutated — repeat logins
	// do not refresh Name or AvatarURL.
	//
	// On return, user is populated with the canonical stored record.
	FindOrCreate(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with the given email, or an error wrapping
	// apperror.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// SettingsStore maps a user identity (email) to preference flags.
//
// Get returns (settings, true, nil) when a record exists and
// (zero, false, nil) when it doesn't — callers apply the default in the
// latter case. Put overwrites unconditionally: last write wins, and no
// ordering is guaranteed across concurrent writers for the same email.
type SettingsStore interface {
	Get(ctx context.Context, email string) (model.Settings, bool, error)
	Put(ctx context.Context, email string, settings model.Settings) error
}
