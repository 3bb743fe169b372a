package db

import (
	"context"

	database "financeio-server/src/db"
	"financeio-server/src/models"

	"github.com/google/uuid"
)

func ListTags(ctx context.Context, q database.Querier, user string) ([]models.Tag, error) {
	query := `
		SELECT id, user_id, name, color, created_at, updated_at
		FROM tags WHERE user_id = $1
		ORDER BY name
	`
	rows, err := q.Query(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.User, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func CreateTag(ctx context.Context, q database.Querier, tag *models.Tag) (*models.Tag, error) {
	query := `
		INSERT INTO tags (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, color, created_at, updated_at
	`
	var t models.Tag
	err := q.QueryRow(ctx, query, uuid.New(), tag.User, tag.Name, tag.Color).
		Scan(&t.ID, &t.User, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTag changes the tag itself. Snapshots already copied into finance
// records keep their old name and color.
func UpdateTag(ctx context.Context, q database.Querier, user string, id uuid.UUID, patch models.TagPatch) (*models.Tag, error) {
	query := `
		UPDATE tags
		SET name = COALESCE($3, name), color = COALESCE($4, color), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, color, created_at, updated_at
	`
	var t models.Tag
	err := q.QueryRow(ctx, query, id, user, patch.Name, patch.Color).
		Scan(&t.ID, &t.User, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &t, nil
}

func DeleteTag(ctx context.Context, q database.Querier, user string, id uuid.UUID) error {
	query := `DELETE FROM tags WHERE id = $1 AND user_id = $2`
	cmd, err := q.Exec(ctx, query, id, user)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
