package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/leetsync/leetsync/internal/db"
	"github.com/leetsync/leetsync/internal/github"
	"github.com/leetsync/leetsync/internal/session"
	"github.com/leetsync/leetsync/internal/vault"
	"gorm.io/gorm"
)

// Authorize runs the OAuth exchange flow: code → GitHub access token →
// user upsert → encrypted vault write → session credential. Steps fail
// fast and nothing is rolled back; the upsert semantics make a retry after
// a partial failure safe. The GitHub token is never included in the
// response.
func Authorize(gdb *gorm.DB, vlt *vault.Vault, gh *github.Client, issuer *session.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Code) == "" {
			writeError(w, http.StatusBadRequest, "missing authorization code")
			return
		}

		token, scopes, err := gh.ExchangeCode(r.Context(), req.Code)
		if err != nil {
			log.Printf("authorize: code exchange failed: %v", err)
			writeError(w, http.StatusBadRequest, "authorization code exchange failed")
			return
		}

		ghUser, err := gh.FetchUser(r.Context(), token)
		if err != nil {
			log.Printf("authorize: user fetch failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to fetch GitHub profile")
			return
		}

		user, err := db.UpsertUser(gdb, ghUser.ID, ghUser.Login, ghUser.Email)
		if err != nil {
			log.Printf("authorize: user upsert failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to persist user")
			return
		}

		if err := vlt.Put(r.Context(), user.ID, token, scopes); err != nil {
			log.Printf("authorize: vault write failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to store credentials")
			return
		}

		credential, err := issuer.Issue(user.ID, session.DefaultTTL)
		if err != nil {
			log.Printf("authorize: session issue failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to issue session")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"session_token": credential,
			"user": map[string]string{
				"username": user.Username,
				"email":    user.Email,
			},
		})
	}
}
