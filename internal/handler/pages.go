// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the services: they parse the
// request, call business logic, and write the response. No business rules
// live here.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/plsleave/internal/auth"
)

// PageHandler renders the HTML pages.
//
// Templates are parsed once at startup and reused per request. Each page
// defines a "content" block pulled into base.html, so every page gets its
// own template set (they would otherwise fight over the "content" name).
type PageHandler struct {
	index  *template.Template
	login  *template.Template
	errTpl *template.Template

	// PubNub keys are injected into the index page for the browser's
	// real-time channel; the server never uses them itself.
	pubnubPublishKey   string
	pubnubSubscribeKey string

	logger *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
func NewPageHandler(templateDir, pubnubPublishKey, pubnubSubscribeKey string, logger *slog.Logger) (*PageHandler, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
	}

	index, err := parse("index.html")
	if err != nil {
		return nil, err
	}
	login, err := parse("login.html")
	if err != nil {
		return nil, err
	}
	errTpl, err := parse("error.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		index:              index,
		login:              login,
		errTpl:             errTpl,
		pubnubPublishKey:   pubnubPublishKey,
		pubnubSubscribeKey: pubnubSubscribeKey,
		logger:             logger,
	}, nil
}

// HandleIndex serves the main page.
//
// HTTP: GET /
// Auth: required (RequireSessionRedirect sends anonymous browsers to /login)
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	data := map[string]interface{}{
		"Title":              "plsleave",
		"Name":               id.Name,
		"Email":              id.Email,
		"PubNubPublishKey":   h.pubnubPublishKey,
		"PubNubSubscribeKey": h.pubnubSubscribeKey,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("rendering index page", slog.String("error", err.Error()))
	}
}

// HandleLogin serves the login page with the provider-login link.
//
// HTTP: GET /login
// Auth: none
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title": "Sign in — plsleave",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.login.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("rendering login page", slog.String("error", err.Error()))
	}
}

// RenderAuthError renders the authentication-failure page with the given
// status. The page shows a generic message — the underlying cause is only
// logged server-side.
func (h *PageHandler) RenderAuthError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := map[string]interface{}{
		"Title":   "Sign-in failed — plsleave",
		"Message": "Authentication failed. Please try signing in again.",
	}
	if err := h.errTpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("rendering error page", slog.String("error", err.Error()))
	}
}
