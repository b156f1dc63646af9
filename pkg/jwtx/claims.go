// Package jwtx signs and verifies the service's session tokens. Access and
// renewal tokens are both EdDSA-signed JWTs; they differ only in lifetime and
// in the typ claim, which verifiers must check so a renewal token can never
// be replayed as an access token.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. The access token is stateless, so its lifetime is the
// only revocation mechanism it has; keep it short.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRenewalTokenTTL = 7 * 24 * time.Hour
)

// Token type values carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRenewal = "refresh"
)

// Claims are the session token claims. Additive changes only, to keep old
// tokens verifiable across deploys.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType distinguishes access tokens from renewal tokens.
	TokenType string `json:"typ,omitempty"`

	// Email of the authenticated identity.
	Email string `json:"email,omitempty"`

	// Role of the authenticated identity ("admin" or "student").
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(subject, email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(TokenTypeAccess, subject, email, role, issuer, ttl, now)
}

// NewRenewalClaims builds claims for a longer-lived renewal token.
func NewRenewalClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(TokenTypeRenewal, subject, "", "", issuer, ttl, now)
}

func newClaims(typ, subject, email, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: typ,
		Email:     email,
		Role:      role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateType ensures the typ claim matches the expected token type.
func (c *Claims) ValidateType(expected string) error {
	if c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}
