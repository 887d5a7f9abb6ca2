// Package handlers implements the HTTP endpoints: the OAuth exchange flow
// and the gate-protected GitHub operations.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/vault"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// resolveToken loads and decrypts the caller's stored GitHub token,
// translating failure modes into responses. A missing vault row means the
// user must re-authenticate; a decryption failure means key rotation or row
// corruption and is an internal error, not a user problem. Returns false
// when a response has already been written.
func resolveToken(w http.ResponseWriter, r *http.Request, vlt *vault.Vault, cipher *crypto.Cipher, userID string) (string, bool) {
	ciphertext, _, err := vlt.Get(r.Context(), userID)
	if errors.Is(err, vault.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "no linked GitHub account, please re-authenticate")
		return "", false
	}
	if err != nil {
		log.Printf("vault read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load credentials")
		return "", false
	}
	token, err := cipher.Decrypt(ciphertext)
	if err != nil {
		log.Printf("token decryption failed for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "credential storage error")
		return "", false
	}
	return token, true
}
