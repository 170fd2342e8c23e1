package handler

import (
	"net/http"
	"time"
)

// healthResponse is the GET /health body.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth is the liveness probe.
//
// HTTP: GET /health
// Auth: none
//
// It deliberately touches nothing — no session, no stores, no database —
// so it keeps answering 200 even when the database is unreachable.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
