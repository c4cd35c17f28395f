// Package api provides HTTP handlers for the ticket upgrade API.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
	"github.com/milan9527/agentticket-sub002/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo                store.Repository
	gateway             agentcore.Gateway
	frontendRedirectURL string
	healthTimeout       time.Duration
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, gateway agentcore.Gateway, frontendURL string, healthTimeout time.Duration) *Handler {
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	return &Handler{
		repo:                repo,
		gateway:             gateway,
		frontendRedirectURL: frontendURL,
		healthTimeout:       healthTimeout,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// EnvelopeError maps a failed agent envelope onto an HTTP error response.
// Timeouts and transport failures are gateway problems; tool-reported
// errors carry the upstream reason.
func EnvelopeError(w http.ResponseWriter, env agentcore.Envelope) {
	switch {
	case env.IsTimeout():
		Error(w, http.StatusGatewayTimeout, "upstream agent timed out")
	case env.IsToolError():
		Error(w, http.StatusUnprocessableEntity, env.Reason())
	default:
		Error(w, http.StatusBadGateway, "upstream agent unavailable")
	}
}

// isDevelopment returns true if running in development mode.
func (h *Handler) isDevelopment() bool {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env == "development"
	}
	// Fallback to URL detection for now
	return h.frontendRedirectURL == "" ||
		h.frontendRedirectURL == "/dashboard" ||
		strings.Contains(h.frontendRedirectURL, "localhost") ||
		strings.Contains(h.frontendRedirectURL, "127.0.0.1")
}
