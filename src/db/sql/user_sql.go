package db

import (
	"context"
	"fmt"

	database "financeio-server/src/db"
	"financeio-server/src/models"

	"github.com/google/uuid"
)

// CreateUser stores a new account. A duplicate email yields database.ErrConflict.
func CreateUser(ctx context.Context, q database.Querier, email string, passwordHash []byte) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, created_at
	`
	var user models.User
	var hash string
	err := q.QueryRow(ctx, query, uuid.New(), email, string(passwordHash)).
		Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", database.MapError(err))
	}
	user.PasswordHash = []byte(hash)
	return &user, nil
}

func GetUserByEmail(ctx context.Context, q database.Querier, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	var user models.User
	var hash string
	err := q.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	user.PasswordHash = []byte(hash)
	return &user, nil
}

func UpdatePasswordHash(ctx context.Context, q database.Querier, email string, passwordHash []byte) error {
	query := `UPDATE users SET password_hash = $2 WHERE email = $1`
	cmd, err := q.Exec(ctx, query, email, string(passwordHash))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// DeleteUser removes the account and every record owned by its tenant.
func DeleteUser(ctx context.Context, q database.Querier, email string) error {
	for _, table := range []string{"finances", "presets", "tags", "categories"} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, email); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	cmd, err := q.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
