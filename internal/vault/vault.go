// Package vault stores provider access tokens encrypted at rest, one live
// token per user.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound means the user has no stored token and must re-authenticate.
// It is distinct from a decryption failure, which signals key or data
// corruption rather than a missing grant.
var ErrNotFound = errors.New("vault: no token for user")

// Vault persists ciphertext keyed by user identity. Get returns ciphertext;
// decryption stays with the caller so the vault never needs the key on the
// read path.
type Vault struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// New builds a Vault over the given store and cipher.
func New(db *gorm.DB, cipher *crypto.Cipher) *Vault {
	return &Vault{db: db, cipher: cipher}
}

// Put encrypts the token under the current key and upserts it by user ID.
// The single-statement upsert keeps the replace atomic at the storage
// layer; no partial record is ever visible.
func (v *Vault) Put(ctx context.Context, userID, token string, scopes []string) error {
	ciphertext, err := v.cipher.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	record := models.TokenRecord{
		UserID:     userID,
		Ciphertext: ciphertext,
		Scopes:     strings.Join(scopes, ","),
	}
	err = v.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ciphertext", "scopes", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Get returns the stored ciphertext and granted scopes for a user.
func (v *Vault) Get(ctx context.Context, userID string) (string, []string, error) {
	var record models.TokenRecord
	err := v.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("load token: %w", err)
	}
	var scopes []string
	if record.Scopes != "" {
		scopes = strings.Split(record.Scopes, ",")
	}
	return record.Ciphertext, scopes, nil
}

// Delete removes the user's token. Deleting an absent row is not an error.
func (v *Vault) Delete(ctx context.Context, userID string) error {
	err := v.db.WithContext(ctx).Delete(&models.TokenRecord{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
