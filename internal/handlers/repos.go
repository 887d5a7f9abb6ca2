package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/github"
	"github.com/leetsync/leetsync/internal/middleware"
	"github.com/leetsync/leetsync/internal/vault"
)

// ListRepos returns the caller's repositories.
func ListRepos(vlt *vault.Vault, cipher *crypto.Cipher, gh *github.Client) middleware.AuthenticatedHandler {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		token, ok := resolveToken(w, r, vlt, cipher, userID)
		if !ok {
			return
		}

		repos, err := gh.ListRepos(r.Context(), token)
		if err != nil {
			log.Printf("repos: list failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to list repositories")
			return
		}
		if repos == nil {
			repos = []github.Repo{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"repos": repos})
	}
}

// SetupRepo creates a new solutions repository for the caller.
func SetupRepo(vlt *vault.Vault, cipher *crypto.Cipher, gh *github.Client) middleware.AuthenticatedHandler {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req struct {
			RepoName    string `json:"repo_name"`
			Description string `json:"description"`
			Private     bool   `json:"private"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.RepoName) == "" {
			writeError(w, http.StatusBadRequest, "missing repo_name")
			return
		}

		token, ok := resolveToken(w, r, vlt, cipher, userID)
		if !ok {
			return
		}

		description := req.Description
		if description == "" {
			description = "My LeetCode solutions"
		}
		repo, err := gh.CreateRepo(r.Context(), token, req.RepoName, description, req.Private)
		if err != nil {
			log.Printf("setup-repo: create failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create repository")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success":   true,
			"repo_url":  repo.URL,
			"repo_name": repo.Name,
			"full_name": repo.FullName,
		})
	}
}
