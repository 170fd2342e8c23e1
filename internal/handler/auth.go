package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/plsleave/internal/auth"
	"github.com/sakif/plsleave/internal/service"
)

// OAuthProvider is the slice of the Google provider the auth handler needs.
// An interface here lets tests drive the full callback flow without Google.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// AuthHandler drives the redirect-based login handshake and the session
// lifecycle endpoints.
//
// HANDLER RESPONSIBILITIES:
//   - HandleGoogleLogin → redirect the browser to Google's authorization page
//   - HandleCallback    → receive the code, exchange it, issue the session cookie
//   - HandleLogout      → clear the session cookie, redirect to /login
//   - HandleDevLogin    → stub auto-login for local development (optional route)
type AuthHandler struct {
	google       OAuthProvider
	authService  *service.AuthService
	pages        *PageHandler
	oauthTimeout time.Duration
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// oauthTimeout bounds the outbound token exchange + userinfo fetch.
func NewAuthHandler(
	google OAuthProvider,
	authService *service.AuthService,
	pages *PageHandler,
	oauthTimeout time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google:       google,
		authService:  authService,
		pages:        pages,
		oauthTimeout: oauthTimeout,
		logger:       logger,
	}
}

// HandleGoogleLogin redirects the user to Google's authorization page.
//
// HTTP: GET /google-login
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived cookie.
// When Google calls back, HandleCallback verifies the state matches, which
// proves the callback follows a redirect this server issued. Beyond this
// check the server keeps no record of a pending login — the "pending" state
// lives entirely in the browser and the provider.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth login flow.
//
// HTTP: GET /auth/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a Google profile (bounded by oauthTimeout)
//  3. Resolve-or-create the user and obtain a session token
//  4. Set the session cookie and redirect to the app home page
//
// The session cookie is set LAST: any failure before it leaves the browser
// exactly as it was — there is no partial session mutation. Failures render
// the error page with 401 and are logged server-side; the raw error never
// reaches the client. One attempt, no retry.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch",
			slog.String("expected", stateCookie.Value),
			slog.String("got", r.URL.Query().Get("state")),
		)
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// Clear the state cookie — it's single-use
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// Google sends an error param when the user denies authorization
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		h.pages.RenderAuthError(w, http.StatusUnauthorized)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	// Bound the outbound network I/O so a slow identity provider cannot
	// hold this request worker indefinitely.
	ctx, cancel := context.WithTimeout(r.Context(), h.oauthTimeout)
	defer cancel()

	gUser, err := h.google.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("auth callback: Google exchange failed", slog.String("error", err.Error()))
		h.pages.RenderAuthError(w, http.StatusUnauthorized)
		return
	}

	result, err := h.authService.LoginOrRegister(ctx, gUser)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("email", gUser.Email),
			slog.String("error", err.Error()),
		)
		h.pages.RenderAuthError(w, http.StatusUnauthorized)
		return
	}

	h.setSessionCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie and redirects to the login page.
//
// HTTP: GET /logout
//
// Deleting the cookie drops ALL session state in one step — the identity
// and the cached display name travel together in the token, so there are
// no stray keys to miss. Idempotent: logging out while already logged out
// is a no-op that still redirects.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // tells the browser to delete the cookie immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleDevLogin issues a session for the fixed local user without going
// through Google. The route is only registered when DEV_LOGIN=true.
//
// HTTP: GET /dev-login
func (h *AuthHandler) HandleDevLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.authService.DevLogin(r.Context())
	if err != nil {
		h.logger.Error("dev login failed", slog.String("error", err.Error()))
		h.pages.RenderAuthError(w, http.StatusUnauthorized)
		return
	}

	h.setSessionCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie stores the signed session token in an HttpOnly cookie.
// HttpOnly keeps it away from page JavaScript; SameSite=Lax sends it on
// top-level navigations but not cross-site POSTs.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // Uncomment in production (requires HTTPS)
	})
}
