package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetAdminByEmail retrieves the admin account for the given email.
// Returns nil when no such account exists.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

// EnsureAdmin creates the admin account if it does not exist yet. An existing
// account is left untouched, so rotating ADMIN_PASSWORD alone does not change
// a previously seeded credential.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO admins (email, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`,
		email, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure admin: %w", err)
	}
	return nil
}
