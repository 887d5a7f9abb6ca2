// Package middleware provides the request-authentication gate for
// protected routes.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/leetsync/leetsync/internal/session"
)

const bearerPrefix = "Bearer "

// Verifier resolves a session credential to a user ID.
type Verifier interface {
	Verify(credential string) (string, error)
}

// AuthenticatedHandler receives the resolved user ID as an explicit
// parameter rather than through request context or a global.
type AuthenticatedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// Gate guards protected routes. It reads the Authorization header, verifies
// the bearer credential, and hands the user ID to the wrapped handler. It
// performs no I/O beyond reading the header.
type Gate struct {
	verifier Verifier
}

// NewGate builds a Gate over the given verifier.
func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v}
}

// Require wraps next with the authentication check. The scheme prefix match
// is exact and case-sensitive: only `Bearer <credential>` is accepted.
func (g *Gate) Require(next AuthenticatedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(w, "invalid authorization header format, expected: Bearer <token>")
			return
		}
		userID, err := g.verifier.Verify(strings.TrimPrefix(header, bearerPrefix))
		switch {
		case errors.Is(err, session.ErrExpired):
			unauthorized(w, "session expired")
			return
		case err != nil:
			unauthorized(w, "invalid session")
			return
		}
		next(w, r, userID)
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
