package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/enroll/internal/enroll/domain"
)

type identitiesRepo struct {
	ext sqlx.ExtContext
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	var row identityRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT id, email, password_hash, role, created_at, updated_at
		   FROM identities WHERE id = ?`, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var row identityRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT id, email, password_hash, role, created_at, updated_at
		   FROM identities WHERE lower(email) = lower(?)`, email)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO identities (id, email, password_hash, role)
		 VALUES (?, ?, ?, ?)`,
		id.ID, id.Email, id.PasswordHash, string(id.Role))
	return mapConflict(err)
}

func (r *identitiesRepo) UpdateIdentityRole(ctx context.Context, identityID string, role domain.Role) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE identities SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), identityID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, identityID string, newHash string) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE identities SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), identityID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, identityID string) error {
	res, err := r.ext.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, identityID)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.CountIdentities(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *identitiesRepo) CountIdentities(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.ext, &n, `SELECT COUNT(*) FROM identities`)
	if err != nil {
		return 0, err
	}
	return n, nil
}
