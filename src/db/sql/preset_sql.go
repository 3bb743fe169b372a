package db

import (
	"context"
	"encoding/json"
	"fmt"

	database "financeio-server/src/db"
	"financeio-server/src/models"

	"github.com/google/uuid"
)

const presetColumns = "id, user_id, amount, description, category, tag_ids, created_at, updated_at"

// scanPreset fills TagIDs only; callers resolve Tags against the owner's
// current tags.
func scanPreset(row rowScanner) (models.Preset, error) {
	var p models.Preset
	var tagIDs []byte
	err := row.Scan(&p.ID, &p.User, &p.Amount, &p.Description, &p.Category, &tagIDs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.TagIDs = []uuid.UUID{}
	if len(tagIDs) > 0 {
		if err := json.Unmarshal(tagIDs, &p.TagIDs); err != nil {
			return p, fmt.Errorf("decode preset tag ids: %w", err)
		}
	}
	return p, nil
}

func encodeTagIDs(ids []uuid.UUID) ([]byte, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode preset tag ids: %w", err)
	}
	return encoded, nil
}

func ListPresets(ctx context.Context, q database.Querier, user string) ([]models.Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets WHERE user_id = $1 ORDER BY created_at`
	rows, err := q.Query(ctx, query, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []models.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func CreatePreset(ctx context.Context, q database.Querier, preset *models.Preset) (*models.Preset, error) {
	tagIDs, err := encodeTagIDs(preset.TagIDs)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO presets (id, user_id, amount, description, category, tag_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + presetColumns
	p, err := scanPreset(q.QueryRow(ctx, query, uuid.New(), preset.User, preset.Amount, preset.Description, preset.Category, tagIDs))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdatePreset(ctx context.Context, q database.Querier, user string, id uuid.UUID, patch models.PresetPatch) (*models.Preset, error) {
	var tagIDs []byte
	if patch.TagIDs != nil {
		encoded, err := encodeTagIDs(*patch.TagIDs)
		if err != nil {
			return nil, err
		}
		tagIDs = encoded
	}
	query := `
		UPDATE presets
		SET amount = COALESCE($3, amount),
			description = COALESCE($4, description),
			category = COALESCE($5, category),
			tag_ids = COALESCE($6::jsonb, tag_ids),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + presetColumns
	p, err := scanPreset(q.QueryRow(ctx, query, id, user, patch.Amount, patch.Description, patch.Category, tagIDs))
	if err != nil {
		return nil, database.MapError(err)
	}
	return &p, nil
}

func DeletePreset(ctx context.Context, q database.Querier, user string, id uuid.UUID) error {
	query := `DELETE FROM presets WHERE id = $1 AND user_id = $2`
	cmd, err := q.Exec(ctx, query, id, user)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
