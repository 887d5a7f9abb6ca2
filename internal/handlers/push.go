package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/github"
	"github.com/leetsync/leetsync/internal/middleware"
	"github.com/leetsync/leetsync/internal/solution"
	"github.com/leetsync/leetsync/internal/vault"
)

// PushSolution commits a solution file to the caller's repository. The
// contents lookup decides between create and update; only an explicit 404
// routes to create, every other lookup failure aborts the push so a
// transient read error is never mistaken for an absent file.
func PushSolution(vlt *vault.Vault, cipher *crypto.Cipher, gh *github.Client) middleware.AuthenticatedHandler {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		var req struct {
			RepoName      string `json:"repo_name"`
			ProblemTitle  string `json:"problem_title"`
			ProblemNumber int    `json:"problem_number"`
			Difficulty    string `json:"difficulty"`
			Language      string `json:"language"`
			Code          string `json:"code"`
			Runtime       string `json:"runtime"`
			Memory        string `json:"memory"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		var missing []string
		for _, f := range []struct{ name, value string }{
			{"repo_name", req.RepoName},
			{"problem_title", req.ProblemTitle},
			{"code", req.Code},
			{"language", req.Language},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
			return
		}

		token, ok := resolveToken(w, r, vlt, cipher, userID)
		if !ok {
			return
		}

		// The contents API needs owner/repo, so resolve the login first.
		ghUser, err := gh.FetchUser(r.Context(), token)
		if err != nil {
			log.Printf("push: user fetch failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to resolve repository owner")
			return
		}

		sol := solution.Solution{
			Title:      req.ProblemTitle,
			Number:     req.ProblemNumber,
			Difficulty: req.Difficulty,
			Language:   req.Language,
			Code:       req.Code,
			Runtime:    req.Runtime,
			Memory:     req.Memory,
		}
		path := sol.FilePath()

		action := "updated"
		sha, err := gh.GetFileSHA(r.Context(), token, ghUser.Login, req.RepoName, path)
		switch {
		case errors.Is(err, github.ErrFileNotFound):
			action = "created"
			sha = ""
		case err != nil:
			log.Printf("push: contents lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to check for existing solution")
			return
		}

		message := fmt.Sprintf("Add solution: %s", req.ProblemTitle)
		if action == "updated" {
			message = fmt.Sprintf("Update solution: %s", req.ProblemTitle)
		}
		commitURL, err := gh.PutFile(r.Context(), token, ghUser.Login, req.RepoName, path, message, sol.Content(), sha)
		if err != nil {
			log.Printf("push: commit failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to push solution")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"commit_url": commitURL,
			"file_path":  path,
			"action":     action,
		})
	}
}
