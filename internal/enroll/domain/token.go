package domain

import "time"

// TokenPair is what a successful register/login/refresh produces: the access
// token goes to the response body, the renewal token only ever travels in an
// httpOnly cookie.
type TokenPair struct {
	AccessToken      string
	RenewalToken     string
	AccessExpiresIn  time.Duration
	RenewalExpiresAt time.Time
}

// RenewalToken models the stored renewal token record. Only the SHA-256
// fingerprint of the token is persisted.
type RenewalToken struct {
	ID         string
	IdentityID string
	TokenHash  string // base64url SHA-256 fingerprint
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
