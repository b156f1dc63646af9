package domain

import "time"

// Identity is a login principal. The password hash stays inside the service;
// only IdentitySummary ever crosses the API boundary.
type Identity struct {
	ID           string
	Email        string // stored lowercase, unique
	PasswordHash string // argon2id PHC encoded
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the outward-facing view of the identity.
func (i Identity) Summary() IdentitySummary {
	return IdentitySummary{
		ID:    i.ID,
		Email: i.Email,
		Role:  i.Role,
	}
}

type IdentitySummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
