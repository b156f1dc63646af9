package service

import (
	"context"
	"errors"
	"time"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/cryptox"
	"github.com/campuskit/enroll/pkg/idx"
	"github.com/campuskit/enroll/pkg/jwtx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRenewal     = errors.New("invalid_renewal_token")
)

// TokenService mints and rotates the token pair. Access tokens are stateless
// JWTs; renewal tokens are JWTs too, but each one also leaves a fingerprint
// row behind so it can be rotated and revoked server-side.
type TokenService struct {
	Signer     *jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RenewalTTL time.Duration
}

// MintPair issues a fresh access/renewal pair for an identity and records
// the renewal fingerprint. It is called after register, login, and during
// rotation.
func (s *TokenService) MintPair(ctx context.Context, identity domain.Identity) (*domain.TokenPair, error) {
	now := time.Now()

	accessClaims := jwtx.NewAccessClaims(
		identity.ID, identity.Email, string(identity.Role),
		s.Issuer, s.AccessTTL, now,
	)
	accessToken, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return nil, err
	}

	renewalClaims := jwtx.NewRenewalClaims(identity.ID, s.Issuer, s.RenewalTTL, now)
	renewalToken, err := s.Signer.Sign(renewalClaims)
	if err != nil {
		return nil, err
	}

	record := domain.RenewalToken{
		ID:         idx.New().String(),
		IdentityID: identity.ID,
		TokenHash:  cryptox.FingerprintToken(renewalToken),
		ExpiresAt:  now.Add(s.RenewalTTL),
		Revoked:    false,
	}
	if err := s.Store.RenewalTokens().CreateRenewalToken(ctx, record); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		RenewalToken:     renewalToken,
		AccessExpiresIn:  s.AccessTTL,
		RenewalExpiresAt: record.ExpiresAt,
	}, nil
}

// Renew validates the presented renewal token, rotates it, and returns a
// fresh pair plus the identity it belongs to. The old token is revoked in
// the same transaction that records the new one, so a replayed token always
// fails.
func (s *TokenService) Renew(ctx context.Context, renewalToken string) (*domain.TokenPair, domain.Identity, error) {
	now := time.Now()

	claims, err := s.verifyRenewal(renewalToken)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	// 1. The signature checks out; now the fingerprint row must still be live.
	fp := cryptox.FingerprintToken(renewalToken)
	rt, err := s.Store.RenewalTokens().GetRenewalTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Identity{}, ErrInvalidRenewal
		}
		return nil, domain.Identity{}, err
	}
	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, domain.Identity{}, ErrInvalidRenewal
	}

	// 2. Role and email come from the store, never from the old token, so a
	// promotion or demotion takes effect on the next renewal.
	identity, err := s.Store.Identities().GetIdentityByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Identity{}, ErrInvalidRenewal
		}
		return nil, domain.Identity{}, err
	}

	accessClaims := jwtx.NewAccessClaims(
		identity.ID, identity.Email, string(identity.Role),
		s.Issuer, s.AccessTTL, now,
	)
	accessToken, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	renewalClaims := jwtx.NewRenewalClaims(identity.ID, s.Issuer, s.RenewalTTL, now)
	newRenewal, err := s.Signer.Sign(renewalClaims)
	if err != nil {
		return nil, domain.Identity{}, err
	}

	newRecord := domain.RenewalToken{
		ID:         idx.New().String(),
		IdentityID: identity.ID,
		TokenHash:  cryptox.FingerprintToken(newRenewal),
		ExpiresAt:  now.Add(s.RenewalTTL),
		Revoked:    false,
	}

	// Atomically: revoke old token and create the replacement
	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RenewalTokens().RevokeRenewalToken(ctx, fp); err != nil {
			return err
		}
		return tx.RenewalTokens().CreateRenewalToken(ctx, newRecord)
	}); err != nil {
		return nil, domain.Identity{}, err
	}

	pair := &domain.TokenPair{
		AccessToken:      accessToken,
		RenewalToken:     newRenewal,
		AccessExpiresIn:  s.AccessTTL,
		RenewalExpiresAt: newRecord.ExpiresAt,
	}
	return pair, identity, nil
}

// Revoke invalidates a renewal token by fingerprint. Already-revoked or
// unknown tokens are treated as success so logout is idempotent.
func (s *TokenService) Revoke(ctx context.Context, renewalToken string) error {
	fp := cryptox.FingerprintToken(renewalToken)
	err := s.Store.RenewalTokens().RevokeRenewalToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAll invalidates every live renewal token for an identity, e.g. after
// a password change.
func (s *TokenService) RevokeAll(ctx context.Context, identityID string) error {
	return s.Store.RenewalTokens().RevokeAllIdentityRenewalTokens(ctx, identityID)
}

func (s *TokenService) verifyRenewal(token string) (jwtx.Claims, error) {
	v := s.Signer.Verifier(s.Issuer)
	claims, err := v.Verify(token)
	if err != nil {
		return jwtx.Claims{}, ErrInvalidRenewal
	}
	if err := claims.ValidateType(jwtx.TokenTypeRenewal); err != nil {
		return jwtx.Claims{}, ErrInvalidRenewal
	}
	return claims, nil
}
