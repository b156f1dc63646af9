package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/cryptox"
	"github.com/campuskit/enroll/pkg/idx"
	"github.com/campuskit/enroll/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the very first admin identity. It only works
// while the identities table is empty; after that every elevation goes
// through the role endpoint.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Identities().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first admin. The provided token must match the
// configured one.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password string) (domain.IdentitySummary, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return domain.IdentitySummary{}, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.IdentitySummary{}, ErrBootstrapAlready
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.IdentitySummary{}, ErrBootstrapUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := domain.ValidateEmail(email); err != nil {
		return domain.IdentitySummary{}, err
	}
	if len(password) < MinPasswordLength {
		return domain.IdentitySummary{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.IdentitySummary{}, err
	}

	admin := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}

	// Re-check emptiness inside the transaction so two racing bootstrap
	// calls cannot both succeed.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Identities().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Identities().CreateIdentity(ctx, admin)
	})
	if err != nil {
		return domain.IdentitySummary{}, err
	}

	l.Info("system bootstrapped", slog.String("admin_id", admin.ID))
	return admin.Summary(), nil
}
