package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/cryptox"
	"github.com/campuskit/enroll/pkg/idx"
	"github.com/campuskit/enroll/pkg/slogx"
)

const MinPasswordLength = 6

var (
	ErrEmailTaken   = errors.New("email_taken")
	ErrWeakPassword = errors.New("weak_password")
	ErrUnknownRole  = errors.New("unknown_role")
)

// AuthService owns registration, login, and identity lookups. Token minting
// is delegated to the TokenService so both paths issue identical pairs.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates a new identity and signs it in. The caller never chooses
// the role: every self-registration lands on the lowest tier, and elevation
// is a separate admin-only operation.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.IdentitySummary, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if err := domain.ValidateEmail(email); err != nil {
		return domain.IdentitySummary{}, nil, err
	}
	if len(password) < MinPasswordLength {
		return domain.IdentitySummary{}, nil, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.IdentitySummary{}, nil, err
	}

	identity := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
	}
	if err := s.Store.Identities().CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.IdentitySummary{}, nil, ErrEmailTaken
		}
		return domain.IdentitySummary{}, nil, err
	}

	pair, err := s.Tokens.MintPair(ctx, identity)
	if err != nil {
		return domain.IdentitySummary{}, nil, err
	}

	l.Info("identity registered",
		slog.String("identity_id", identity.ID),
		slog.String("role", string(identity.Role)),
	)
	return identity.Summary(), pair, nil
}

// Login verifies credentials and mints a fresh pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.IdentitySummary, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	identity, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed", slog.String("reason", "unknown_email"))
			return domain.IdentitySummary{}, nil, ErrInvalidCredentials
		}
		return domain.IdentitySummary{}, nil, err
	}

	if err := cryptox.VerifyPassword(password, identity.PasswordHash); err != nil {
		l.Info("login failed",
			slog.String("identity_id", identity.ID),
			slog.String("reason", "bad_password"),
		)
		return domain.IdentitySummary{}, nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.MintPair(ctx, identity)
	if err != nil {
		return domain.IdentitySummary{}, nil, err
	}
	return identity.Summary(), pair, nil
}

// ChangePassword rotates an identity's secret after re-verifying the current
// one. Every outstanding renewal token is revoked, so other sessions have to
// log in again with the new password.
func (s *AuthService) ChangePassword(ctx context.Context, identityID, current, next string) error {
	l := slogx.FromContext(ctx)

	identity, err := s.Store.Identities().GetIdentityByID(ctx, identityID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(current, identity.PasswordHash); err != nil {
		l.Info("password change failed",
			slog.String("identity_id", identityID),
			slog.String("reason", "bad_password"),
		)
		return ErrInvalidCredentials
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Store.Identities().UpdatePasswordHash(ctx, identityID, hash); err != nil {
		return err
	}
	if err := s.Tokens.RevokeAll(ctx, identityID); err != nil {
		return err
	}

	l.Info("password changed", slog.String("identity_id", identityID))
	return nil
}

// Me resolves the authenticated identity from its id.
func (s *AuthService) Me(ctx context.Context, identityID string) (domain.IdentitySummary, error) {
	identity, err := s.Store.Identities().GetIdentityByID(ctx, identityID)
	if err != nil {
		return domain.IdentitySummary{}, err
	}
	return identity.Summary(), nil
}

// SetRole elevates or demotes an identity. Role changes take effect on the
// target's next token renewal; outstanding access tokens keep their old role
// until they expire.
func (s *AuthService) SetRole(ctx context.Context, identityID string, role domain.Role) (domain.IdentitySummary, error) {
	l := slogx.FromContext(ctx)

	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return domain.IdentitySummary{}, ErrUnknownRole
	}

	if err := s.Store.Identities().UpdateIdentityRole(ctx, identityID, parsed); err != nil {
		return domain.IdentitySummary{}, err
	}

	identity, err := s.Store.Identities().GetIdentityByID(ctx, identityID)
	if err != nil {
		return domain.IdentitySummary{}, err
	}

	l.Info("identity role changed",
		slog.String("identity_id", identityID),
		slog.String("role", string(parsed)),
	)
	return identity.Summary(), nil
}
