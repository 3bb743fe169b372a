package db

import (
	"context"

	database "financeio-server/src/db"
	"financeio-server/src/models"

	"github.com/google/uuid"
)

func ListCategories(ctx context.Context, q database.Querier, user string) ([]models.Category, error) {
	query := `
		SELECT id, user_id, description, created_at, updated_at
		FROM categories WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := q.Query(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.User, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func CreateCategory(ctx context.Context, q database.Querier, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (id, user_id, description)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, description, created_at, updated_at
	`
	var c models.Category
	err := q.QueryRow(ctx, query, uuid.New(), category.User, category.Description).
		Scan(&c.ID, &c.User, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func UpdateCategory(ctx context.Context, q database.Querier, user string, id uuid.UUID, description *string) (*models.Category, error) {
	query := `
		UPDATE categories
		SET description = COALESCE($3, description), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, description, created_at, updated_at
	`
	var c models.Category
	err := q.QueryRow(ctx, query, id, user, description).
		Scan(&c.ID, &c.User, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &c, nil
}

// DeleteCategory leaves finance records and presets that reference the
// category untouched.
func DeleteCategory(ctx context.Context, q database.Querier, user string, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	cmd, err := q.Exec(ctx, query, id, user)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
