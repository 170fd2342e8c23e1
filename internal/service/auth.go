// Package service — business logic between the HTTP handlers and the stores.
//
// AuthService orchestrates the login flow's server side:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ SessionService (signed cookie)
//
// KEY RESPONSIBILITIES:
//   - Resolve the Google profile into a directory record (create on first
//     login, reuse on every later one)
//   - Issue the session token for the resolved identity
//   - Stay free of HTTP concerns so it's testable with fake dependencies
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/plsleave/internal/auth"
	"github.com/sakif/plsleave/internal/model"
	"github.com/sakif/plsleave/internal/repository"
)

// AuthService handles the authentication business logic.
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// LoginResult bundles the resolved user and the issued session token so the
// handler can set the cookie and redirect in one step.
type LoginResult struct {
	User  *model.User
	Token string
}

// LoginOrRegister handles the OAuth callback's server side.
//
// After the handler exchanges the code for a GoogleUser profile, this method:
//
//  1. Resolves the user in the directory — created exactly once per distinct
//     email, reused untouched on repeat logins
//  2. Issues a session token carrying the email and display name
//
// The session token is produced LAST: if the directory write fails, no
// session state exists anywhere, so a failed callback never leaves the
// browser half logged in.
func (s *AuthService) LoginOrRegister(ctx context.Context, gUser *auth.GoogleUser) (*LoginResult, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user := &model.User{
		GoogleID:  gUser.Sub,
		Email:     gUser.Email,
		Name:      gUser.Name,
		AvatarURL: gUser.Picture,
	}

	// FindOrCreate populates user with the canonical stored record — which
	// may carry older name/avatar values than the profile just fetched.
	if err := s.users.FindOrCreate(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: resolving user %s: %w", gUser.Email, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	// The session caches the freshly fetched display name, not the stored
	// one, so the UI greets the user with their current Google name even
	// though the directory record is never refreshed.
	name := gUser.Name
	if name == "" {
		name = user.Name
	}

	token, err := s.sessions.Issue(auth.Identity{Email: user.Email, Name: name})
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing session for %s: %w", user.Email, err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// DevLogin resolves the fixed local development user and issues a session,
// bypassing the identity provider entirely. Only reachable when the
// DEV_LOGIN route is registered.
func (s *AuthService) DevLogin(ctx context.Context) (*LoginResult, error) {
	return s.LoginOrRegister(ctx, &auth.GoogleUser{
		Sub:   "dev-local",
		Email: "dev@localhost",
		Name:  "Dev User",
	})
}
