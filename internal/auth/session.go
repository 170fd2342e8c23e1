// Package auth provides the Google OAuth flow, session tokens, and the
// login-guard middleware.
//
// SESSION MODEL:
// A logged-in browser holds one HttpOnly "session" cookie containing an
// HS256-signed JWT. The token carries the user's email (the "sub" claim)
// and display name — everything a request handler needs, so no directory
// lookup happens per request. Absence or invalidity of the cookie means
// "not authenticated"; logout simply deletes the cookie.
//
// This is the same mechanism as a classic signed-cookie session: the server
// stores nothing, the signature proves the server issued the values, and
// expiry is enforced by the token's own exp claim plus the cookie MaxAge.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session remains valid. The cookie
// MaxAge set by the handlers matches this.
const SessionTTL = 7 * 24 * time.Hour

// Identity is the authenticated user state carried by a session:
// the email resolved at login plus the display name cached alongside it.
type Identity struct {
	Email string
	Name  string
}

// SessionService signs and verifies session tokens.
//
// It holds the HMAC secret (SECRET_KEY) used for both operations. The same
// secret must be used across restarts or every session is invalidated.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// Secrets shorter than 16 characters are rejected, with one exception:
// the "dev" placeholder is allowed so the app boots during local
// development (main logs a warning when it's in use).
func NewSessionService(secret string) (*SessionService, error) {
	if secret != "dev" && len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// sessionClaims is the token payload. "sub" holds the user email;
// "name" is our private claim for the cached display name.
type sessionClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies, which is all a single-server deployment needs.
func (s *SessionService) Issue(id Identity) (string, error) {
	now := time.Now()

	c := sessionClaims{
		Name: id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			Issuer:    "plsleave",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the Identity it
// encodes.
//
// Checks performed by the jwt library:
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps sharing a secret)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *SessionService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("plsleave"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: session expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid session claims")
	}

	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: session token has no subject")
	}

	return Identity{Email: c.Subject, Name: c.Name}, nil
}
