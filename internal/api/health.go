package api

import (
	"context"
	"net/http"
)

// HandleHealth reports service health, including database reachability.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
	defer cancel()

	env := "production"
	if h.isDevelopment() {
		env = "development"
	}

	if err := h.repo.Ping(ctx); err != nil {
		JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":      "unhealthy",
			"environment": env,
			"error":       "database unreachable",
		})
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": env,
	})
}
