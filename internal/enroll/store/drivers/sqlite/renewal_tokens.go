package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/enroll/internal/enroll/domain"
)

type renewalTokensRepo struct {
	ext sqlx.ExtContext
}

func (r *renewalTokensRepo) CreateRenewalToken(ctx context.Context, t domain.RenewalToken) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO renewal_tokens (id, identity_id, token_hash, expires_at)
		 VALUES (?, ?, ?, ?)`,
		t.ID, t.IdentityID, t.TokenHash, t.ExpiresAt)
	return mapConflict(err)
}

func (r *renewalTokensRepo) GetRenewalTokenByHash(ctx context.Context, hash string) (domain.RenewalToken, error) {
	var row renewalTokenRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT id, identity_id, token_hash, expires_at, revoked, created_at, updated_at
		   FROM renewal_tokens WHERE token_hash = ?`, hash)
	if err != nil {
		return domain.RenewalToken{}, mapNotFound(err)
	}
	return mapRenewalToken(row), nil
}

func (r *renewalTokensRepo) RevokeRenewalToken(ctx context.Context, hash string) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE renewal_tokens SET revoked = 1, updated_at = ? WHERE token_hash = ?`,
		time.Now().UTC(), hash)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

func (r *renewalTokensRepo) RevokeAllIdentityRenewalTokens(ctx context.Context, identityID string) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE renewal_tokens SET revoked = 1, updated_at = ? WHERE identity_id = ? AND revoked = 0`,
		time.Now().UTC(), identityID)
	return err
}

func (r *renewalTokensRepo) DeleteExpiredRenewalTokens(ctx context.Context) error {
	_, err := r.ext.ExecContext(ctx,
		`DELETE FROM renewal_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
