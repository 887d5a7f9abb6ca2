package handlers

import (
	"net/http"

	"github.com/leetsync/leetsync/internal/version"
)

// Health reports service liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": version.Version,
		})
	}
}
