// Package session mints and verifies the stateless bearer credentials the
// extension presents on every protected request.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime handed to the extension.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrExpired means the signature verified but the credential is past
	// its expiry.
	ErrExpired = errors.New("session: expired")

	// ErrInvalid covers bad signatures, unexpected algorithms, and
	// malformed credentials.
	ErrInvalid = errors.New("session: invalid")
)

// Claims carried by a session credential.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 session credentials. Sessions are fully
// stateless: there is no revocation list, a credential stays valid until
// its expiry, and rotating the secret is the only way to invalidate
// outstanding sessions early. Revoking GitHub access deletes the vault row
// but leaves the session credential intact; this exposure window is
// accepted.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// New builds an Issuer from the process signing secret.
func New(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue mints a credential binding userID for the given lifetime.
func (i *Issuer) Issue(userID string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Verify checks the credential and returns the bound user ID. The signature
// check takes precedence: a tampered credential fails ErrInvalid even when
// its claimed expiry is in the past. HMAC comparison inside the jwt library
// is constant time.
func (i *Issuer) Verify(credential string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(credential, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	default:
		return "", ErrInvalid
	}
	if claims.UserID == "" {
		return "", ErrInvalid
	}
	return claims.UserID, nil
}
