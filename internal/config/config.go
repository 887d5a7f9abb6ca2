// Package config loads process configuration from the environment.
package config

import (
	"encoding/base64"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all process configuration. It is constructed once at startup
// and passed by value; nothing mutates it afterwards. Secret fields must
// never be logged or included in any response.
type Config struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port string `env:"PORT" envDefault:"8080"`

	GithubClientID     string `env:"GITHUB_CLIENT_ID,required,notEmpty"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET,required,notEmpty"`

	// SessionSecret signs session credentials. Rotating it invalidates
	// every outstanding session.
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// EncryptionKey is a base64-encoded 32-byte AES key. Rotating it
	// orphans every stored token until the rows are re-encrypted under
	// the new key.
	EncryptionKey string `env:"ENCRYPTION_KEY,required,notEmpty"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"leetsync.db"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses configuration from the environment. Missing required
// variables or a malformed encryption key are startup errors.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.AESKey(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AESKey decodes the configured encryption key and checks its length.
func (c Config) AESKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decode ENCRYPTION_KEY: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}
