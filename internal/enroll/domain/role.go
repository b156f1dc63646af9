package domain

import "fmt"

// Role is the two-tier access model. Admins may mutate student records;
// every other role is read-only.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// DefaultRole is the only role granted at self-registration. Elevation to
// admin is a separate administrative action, never a registration input.
const DefaultRole = RoleStudent

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStudent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }
