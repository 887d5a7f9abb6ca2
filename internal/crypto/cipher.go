// Package crypto encrypts provider tokens at rest with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidInput is returned for an empty plaintext, payload, or key.
	ErrInvalidInput = errors.New("crypto: empty input")

	// ErrDecryptionFailed covers undecodable, truncated, or tampered
	// payloads and payloads encrypted under a different key.
	ErrDecryptionFailed = errors.New("crypto: decryption failed")
)

// Cipher seals and opens secret strings under a process-wide key. GCM
// authenticates the ciphertext, so any modification fails Decrypt instead
// of producing corrupted plaintext.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a raw AES-256 key (32 bytes).
func New(key []byte) (*Cipher, error) {
	if len(key) == 0 {
		return nil, ErrInvalidInput
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrInvalidInput
	}
	// GCM requires a unique nonce per encryption under the same key.
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.RawStdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt opens a payload previously produced by Encrypt.
func (c *Cipher) Decrypt(payload string) (string, error) {
	if payload == "" {
		return "", ErrInvalidInput
	}
	raw, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrDecryptionFailed
	}
	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
