// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// We use Google OAuth as the identity provider. Google's stable external
// identifier is the "sub" claim (a string of digits), stored as GoogleID.
// We still generate our own internal string ID (xid) so our primary keys
// aren't tied to a third party's numbering scheme.
//
// Email is the human-facing identity key used everywhere else in the system
// (settings lookups, session subject). It is UNIQUE and non-empty — the
// callback handler rejects Google profiles that arrive without an email.
//
// GoogleID may be empty on rows created before the provider id was recorded;
// the database enforces uniqueness only on non-empty values.
//
// Name and AvatarURL are captured on first login and never refreshed
// afterwards — repeat logins reuse the existing row untouched, so these can
// go stale if the user changes their Google profile.
type User struct {
	ID        string    `json:"id"        db:"id"`
	GoogleID  string    `json:"googleId"  db:"google_id"`  // Google's "sub" claim
	Email     string    `json:"email"     db:"email"`      // Unique, non-empty
	Name      string    `json:"name"      db:"name"`       // Display name (may be empty)
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"` // Profile picture URL
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // Set once at first login
}
