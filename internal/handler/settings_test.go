package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/plsleave/internal/auth"
	"github.com/sakif/plsleave/internal/handler"
	"github.com/sakif/plsleave/internal/service"
	"github.com/sakif/plsleave/internal/settings"
)

const testSecret = "test-secret-at-least-16-chars!!"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newSettingsRouter assembles the /api routes exactly as the server does:
// memory-backed settings store behind the JSON login guard.
func newSettingsRouter(t *testing.T) (*chi.Mux, *auth.SessionService) {
	t.Helper()

	sessions, err := auth.NewSessionService(testSecret)
	require.NoError(t, err)

	logger := testLogger()
	svc := service.NewSettingsService(settings.NewMemoryStore(), logger)
	h := handler.NewSettingsHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))
		r.Post("/motion/toggle", h.HandleToggleMotion)
		r.Get("/user/settings", h.HandleGetSettings)
	})
	return r, sessions
}

// sessionCookie issues a valid session cookie for the given identity.
func sessionCookie(t *testing.T, sessions *auth.SessionService, email, name string) *http.Cookie {
	t.Helper()
	token, err := sessions.Issue(auth.Identity{Email: email, Name: name})
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func TestGetSettings_DefaultsTrueForFreshIdentity(t *testing.T) {
	r, sessions := newSettingsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/settings", nil)
	req.AddCookie(sessionCookie(t, sessions, "a@b.com", "A"))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		MotionEnabled bool   `json:"motion_enabled"`
		LastLogin     string `json:"last_login"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))

	assert.Equal(t, "A", res.Name)
	assert.Equal(t, "a@b.com", res.Email)
	assert.True(t, res.MotionEnabled, "fresh identity must default to motion enabled")

	// last_login is computed at read time and must parse as RFC3339
	_, err := time.Parse(time.RFC3339, res.LastLogin)
	assert.NoError(t, err)
}

func TestGetSettings_LastLoginIsReadTime(t *testing.T) {
	r, sessions := newSettingsRouter(t)
	cookie := sessionCookie(t, sessions, "a@b.com", "A")

	call := func() string {
		req := httptest.NewRequest(http.MethodGet, "/api/user/settings", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		var res struct {
			LastLogin string `json:"last_login"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		return res.LastLogin
	}

	first := call()
	time.Sleep(1100 * time.Millisecond) // RFC3339 has second precision
	second := call()

	assert.NotEqual(t, first, second, "last_login must be computed per request, not stored")
}

func TestToggleMotion_MostRecentCallWins(t *testing.T) {
	r, sessions := newSettingsRouter(t)
	cookie := sessionCookie(t, sessions, "a@b.com", "A")

	toggle := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/motion/toggle", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}
	getEnabled := func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/user/settings", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		var res struct {
			MotionEnabled bool `json:"motion_enabled"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		return res.MotionEnabled
	}

	rr := toggle(`{"enabled": false}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Success bool `json:"success"`
		Enabled bool `json:"enabled"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.False(t, res.Enabled)
	assert.False(t, getEnabled())

	toggle(`{"enabled": true}`)
	assert.True(t, getEnabled())

	toggle(`{"enabled": false}`)
	assert.False(t, getEnabled())
}

func TestToggleMotion_OmittedFieldResetsToTrue(t *testing.T) {
	r, sessions := newSettingsRouter(t)
	cookie := sessionCookie(t, sessions, "a@b.com", "A")

	// First disable motion explicitly
	req := httptest.NewRequest(http.MethodPost, "/api/motion/toggle", bytes.NewBufferString(`{"enabled": false}`))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// A body that omits "enabled" does NOT preserve the prior value —
	// it resets to true. Clients depend on this default-reset behaviour.
	req = httptest.NewRequest(http.MethodPost, "/api/motion/toggle", bytes.NewBufferString(`{}`))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Enabled bool `json:"enabled"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Enabled, "omitted enabled field must reset the preference to true")
}

func TestToggleMotion_MalformedJSONRejected(t *testing.T) {
	r, sessions := newSettingsRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/motion/toggle", bytes.NewBufferString(`{"enabled":`))
	req.AddCookie(sessionCookie(t, sessions, "a@b.com", "A"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_Unauthenticated401JSON(t *testing.T) {
	r, _ := newSettingsRouter(t)

	// Both API endpoints must answer 401 with the fixed JSON body — never
	// a redirect, which would be meaningless to a programmatic client.
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/api/user/settings"},
		{http.MethodPost, "/api/motion/toggle"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error": "Not logged in"}`, rr.Body.String())
	}
}

func TestAPI_InvalidSessionToken401(t *testing.T) {
	r, _ := newSettingsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/settings", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tampered.token.value"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "Not logged in"}`, rr.Body.String())
}

// Guard against accidental context leakage: a request whose context never
// went through the middleware must read as anonymous.
func TestIdentityFromContext_Anonymous(t *testing.T) {
	_, ok := auth.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
