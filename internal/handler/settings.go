package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/plsleave/internal/apperror"
	"github.com/sakif/plsleave/internal/auth"
	"github.com/sakif/plsleave/internal/service"
)

// SettingsHandler exposes the per-user preference endpoints.
//
// Both routes sit behind the RequireSession guard, so by the time a request
// reaches these methods the context carries a validated Identity.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// settingsResponse is the GET /api/user/settings body.
type settingsResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	MotionEnabled bool   `json:"motion_enabled"`
	LastLogin     string `json:"last_login"`
}

// toggleRequest is the POST /api/motion/toggle body.
//
// Enabled is a pointer so we can tell "field omitted" from "explicitly
// false". An omitted field defaults to true — meaning a toggle call that
// leaves it out RESETS the preference rather than preserving it. That
// asymmetry is long-standing observable behaviour that clients rely on.
type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// toggleResponse is the POST /api/motion/toggle body.
type toggleResponse struct {
	Success bool `json:"success"`
	Enabled bool `json:"enabled"`
}

// HandleGetSettings returns the caller's profile and preferences.
//
// HTTP: GET /api/user/settings
// Auth: required (RequireSession sets the identity in context)
//
// last_login is the wall-clock time of THIS request, not a stored value —
// two calls in a row yield two different timestamps. Read-time computation,
// not an audit trail.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireSession, but be safe
		writeError(w, apperror.Unauthorized("Not logged in"))
		return
	}

	settings, err := h.settings.Get(r.Context(), id.Email)
	if err != nil {
		h.logger.Error("get settings failed",
			slog.String("email", id.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settingsResponse{
		Name:          id.Name,
		Email:         id.Email,
		MotionEnabled: settings.MotionEnabled,
		LastLogin:     time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleToggleMotion overwrites the caller's motion preference.
//
// HTTP: POST /api/motion/toggle
// Auth: required
// BODY: {"enabled": bool} — omitting the field defaults to true (see
// toggleRequest); an unparseable body is rejected with 400.
//
// The write is unconditional last-write-wins: no optimistic concurrency,
// no ordering guarantee across simultaneous calls for the same identity.
func (h *SettingsHandler) HandleToggleMotion(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Not logged in"))
		return
	}

	var req toggleRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("toggle: invalid JSON body", slog.String("error", err.Error()))
			writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
			return
		}
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	if err := h.settings.SetMotion(r.Context(), id.Email, enabled); err != nil {
		h.logger.Error("toggle: store write failed",
			slog.String("email", id.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{Success: true, Enabled: enabled})
}
