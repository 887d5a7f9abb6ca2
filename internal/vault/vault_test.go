package vault

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/db/models"
	"gorm.io/gorm"
)

func newTestVault(t *testing.T) (*Vault, *crypto.Cipher, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.TokenRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := crypto.New(key)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return New(gdb, cipher), cipher, gdb
}

func TestPutGetRoundTrip(t *testing.T) {
	vlt, cipher, _ := newTestVault(t)
	ctx := context.Background()

	if err := vlt.Put(ctx, "user-1", "ghp_secret", []string{"repo", "read:user"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	ciphertext, scopes, err := vlt.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ciphertext == "ghp_secret" {
		t.Fatal("vault stored the token in plaintext")
	}
	plaintext, err := cipher.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "ghp_secret" {
		t.Fatalf("expected ghp_secret, got %q", plaintext)
	}
	if len(scopes) != 2 || scopes[0] != "repo" || scopes[1] != "read:user" {
		t.Fatalf("unexpected scopes: %v", scopes)
	}
}

func TestPutUpsertsByUser(t *testing.T) {
	vlt, cipher, gdb := newTestVault(t)
	ctx := context.Background()

	if err := vlt.Put(ctx, "user-1", "token-old", []string{"repo"}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := vlt.Put(ctx, "user-1", "token-new", []string{"repo", "user:email"}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	var count int64
	if err := gdb.Model(&models.TokenRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", count)
	}

	ciphertext, scopes, err := vlt.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	plaintext, err := cipher.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plaintext != "token-new" {
		t.Fatalf("expected token-new after upsert, got %q", plaintext)
	}
	if len(scopes) != 2 {
		t.Fatalf("expected refreshed scopes, got %v", scopes)
	}
}

func TestGetMissing(t *testing.T) {
	vlt, _, _ := newTestVault(t)

	if _, _, err := vlt.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	vlt, _, _ := newTestVault(t)
	ctx := context.Background()

	if err := vlt.Put(ctx, "user-1", "ghp_secret", nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := vlt.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if _, _, err := vlt.Get(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Absence of a prior record is not an error.
	if err := vlt.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestEmptyScopes(t *testing.T) {
	vlt, _, _ := newTestVault(t)
	ctx := context.Background()

	if err := vlt.Put(ctx, "user-1", "ghp_secret", nil); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, scopes, err := vlt.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if scopes != nil {
		t.Fatalf("expected nil scopes, got %v", scopes)
	}
}
