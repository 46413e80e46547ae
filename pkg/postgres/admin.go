package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oakhollow/staff-rota/pkg/db"
)

// GetAdminByUsername retrieves an admin user record by username.
func (d *DB) GetAdminByUsername(ctx context.Context, username string) (*db.AdminUser, error) {
	var admin db.AdminUser
	err := d.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1
	`, username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admin user: %w", err)
	}
	return &admin, nil
}

// CountAdmins returns the number of admin user records.
func (d *DB) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}

// InsertAdmin inserts a new admin user record.
func (d *DB) InsertAdmin(ctx context.Context, admin *db.AdminUser) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO admin_users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	return nil
}
