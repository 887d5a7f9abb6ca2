package handlers

import (
	"log"
	"net/http"

	"github.com/leetsync/leetsync/internal/middleware"
	"github.com/leetsync/leetsync/internal/vault"
)

// Revoke deletes the caller's stored GitHub token. Idempotent: revoking an
// already-revoked account still succeeds. The session credential itself
// stays valid until its natural expiry; it just no longer resolves to a
// token.
func Revoke(vlt *vault.Vault) middleware.AuthenticatedHandler {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		if err := vlt.Delete(r.Context(), userID); err != nil {
			log.Printf("revoke: vault delete failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to revoke access")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "GitHub access revoked",
		})
	}
}
