package store

import (
	"context"
	"errors"

	"github.com/campuskit/enroll/internal/enroll/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to discourage transactions within transactions.
type Store interface {
	Identities() Identities
	Students() Students
	RenewalTokens() RenewalTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., renewal rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail is used during login. Lookup is case-insensitive.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by app via ULID).
	CreateIdentity(ctx context.Context, id domain.Identity) error

	// UpdateIdentityRole changes the role and bumps updated_at.
	UpdateIdentityRole(ctx context.Context, identityID string, role domain.Role) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, identityID string, newHash string) error

	// DeleteIdentity cascades to renewal_tokens (per schema).
	DeleteIdentity(ctx context.Context, identityID string) error

	// IsEmpty returns true if there are no identities.
	IsEmpty(ctx context.Context) (bool, error)

	// CountIdentities returns the total number of identities.
	CountIdentities(ctx context.Context) (int, error)
}

type Students interface {
	// GetStudentByID returns a student record by its ULID.
	GetStudentByID(ctx context.Context, id string) (domain.Student, error)

	// GetStudentByEmail is a case-insensitive lookup used for the
	// self-service profile view.
	GetStudentByEmail(ctx context.Context, email string) (domain.Student, error)

	// CreateStudent inserts a new student record (id is ULID).
	CreateStudent(ctx context.Context, s domain.Student) error

	// UpdateStudent replaces all mutable fields of the record and bumps
	// updated_at.
	UpdateStudent(ctx context.Context, s domain.Student) error

	// DeleteStudent removes a record permanently.
	DeleteStudent(ctx context.Context, id string) error

	// ListStudents returns one page of students matching the query plus the
	// total number of matches before pagination. The query must already be
	// normalized.
	ListStudents(ctx context.Context, q domain.StudentQuery) ([]domain.Student, int64, error)

	// StudentIDExists reports whether a registrar-assigned student id is
	// already taken, optionally excluding one record (for updates).
	StudentIDExists(ctx context.Context, studentID string, excludeID string) (bool, error)

	// EmailExists reports whether a student email is already taken,
	// optionally excluding one record (for updates).
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)

	// Stats returns aggregate dashboard counters over the students table.
	Stats(ctx context.Context) (total, active, activeCourses, recentEnrollments int, err error)
}

type RenewalTokens interface {
	// CreateRenewalToken stores a new renewal token record.
	CreateRenewalToken(ctx context.Context, t domain.RenewalToken) error

	// GetRenewalTokenByHash returns the token by its fingerprint.
	GetRenewalTokenByHash(ctx context.Context, hash string) (domain.RenewalToken, error)

	// RevokeRenewalToken flips revoked=1, sets updated_at.
	RevokeRenewalToken(ctx context.Context, hash string) error

	// RevokeAllIdentityRenewalTokens bulk revocation for an identity
	// (e.g., password reset).
	RevokeAllIdentityRenewalTokens(ctx context.Context, identityID string) error

	// DeleteExpiredRenewalTokens is optional housekeeping.
	DeleteExpiredRenewalTokens(ctx context.Context) error
}
