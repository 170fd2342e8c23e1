package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the HttpOnly cookie holding the session token.
const SessionCookie = "session"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type prevents other packages from reading or
// shadowing the identity value stored in the request context.
type contextKey string

const identityKey contextKey = "identity"

// RequireSession is the login guard for JSON API routes.
//
// It reads the session cookie, validates the token, and stores the Identity
// in the request context. If the session is missing or invalid it stops the
// chain with 401 and the fixed body {"error": "Not logged in"} — never a
// redirect, because a redirect is meaningless to a programmatic JSON client.
func RequireSession(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "Not logged in"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSessionRedirect is the login guard for page-rendering routes.
// Unauthenticated browsers are sent to the login page instead of receiving
// a JSON error — the two endpoint classes deliberately diverge here.
func RequireSessionRedirect(sessions *SessionService, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, sessions)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns (zero, false) if the request is anonymous.
//
// Usage in handlers:
//
//	id, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Email != ""
}

// extractIdentity reads the session cookie and validates it.
// Shared by both guard variants.
func extractIdentity(r *http.Request, sessions *SessionService) (Identity, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error condition, just anonymous
		return Identity{}, err
	}

	return sessions.Validate(cookie.Value)
}
