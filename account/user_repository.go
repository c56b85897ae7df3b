package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct{ pool *pgxpool.Pool }

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (User, error) {
	sql := `
			SELECT id, email, COALESCE(full_name, ''), role, academy_id
			FROM users
			WHERE id=$1 AND is_active;
		`

	var user User
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.AcademyID,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}

	if err != nil {
		return User{}, fmt.Errorf("failed to fetch user with id %v: %w", id, err)
	}

	return user, nil
}

// FindAcademyAdmin returns the longest-standing active admin of an academy.
func (r *Repository) FindAcademyAdmin(ctx context.Context, academyID string) (User, error) {
	sql := `
			SELECT id, email, COALESCE(full_name, ''), role, academy_id
			FROM users
			WHERE academy_id=$1 AND role='academy_admin' AND is_active
			ORDER BY created_at
			LIMIT 1;
		`

	var user User
	err := r.pool.QueryRow(ctx, sql, academyID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.AcademyID,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}

	if err != nil {
		return User{}, fmt.Errorf("failed to fetch admin of academy %v: %w", academyID, err)
	}

	return user, nil
}
