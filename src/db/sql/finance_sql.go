package db

import (
	"context"
	"encoding/json"
	"fmt"

	database "financeio-server/src/db"
	"financeio-server/src/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const financeColumns = "id, user_id, amount, description, date, category, tags, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFinance(row rowScanner) (models.FinanceRecord, error) {
	var f models.FinanceRecord
	var tags []byte
	err := row.Scan(&f.ID, &f.User, &f.Amount, &f.Description, &f.Date, &f.Category, &tags, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	f.Tags = []models.TagRef{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &f.Tags); err != nil {
			return f, fmt.Errorf("decode finance tags: %w", err)
		}
	}
	return f, nil
}

// ListFinances returns the user's records, newest first.
func ListFinances(ctx context.Context, q database.Querier, user string, filter models.FinanceFilter) ([]models.FinanceRecord, error) {
	builder := psql.Select(financeColumns).
		From("finances").
		Where(sq.Eq{"user_id": user}).
		OrderBy("date DESC", "created_at DESC")
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(sq.Lt{"date": *filter.To})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build finance query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	finances := []models.FinanceRecord{}
	for rows.Next() {
		f, err := scanFinance(rows)
		if err != nil {
			return nil, err
		}
		finances = append(finances, f)
	}
	return finances, rows.Err()
}

func CreateFinance(ctx context.Context, q database.Querier, f *models.FinanceRecord) (*models.FinanceRecord, error) {
	if f.Tags == nil {
		f.Tags = []models.TagRef{}
	}
	tags, err := json.Marshal(f.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode finance tags: %w", err)
	}
	query := `
		INSERT INTO finances (id, user_id, amount, description, date, category, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + financeColumns
	created, err := scanFinance(q.QueryRow(ctx, query, uuid.New(), f.User, f.Amount, f.Description, f.Date, f.Category, tags))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func GetFinanceByID(ctx context.Context, q database.Querier, user string, id uuid.UUID) (*models.FinanceRecord, error) {
	query := `SELECT ` + financeColumns + ` FROM finances WHERE id = $1 AND user_id = $2`
	f, err := scanFinance(q.QueryRow(ctx, query, id, user))
	if err != nil {
		return nil, database.MapError(err)
	}
	return &f, nil
}

// UpdateFinance applies the non-nil fields of patch to the user's record.
func UpdateFinance(ctx context.Context, q database.Querier, user string, id uuid.UUID, patch models.FinancePatch) (*models.FinanceRecord, error) {
	var tags []byte
	if patch.Tags != nil {
		refs := *patch.Tags
		if refs == nil {
			refs = []models.TagRef{}
		}
		encoded, err := json.Marshal(refs)
		if err != nil {
			return nil, fmt.Errorf("encode finance tags: %w", err)
		}
		tags = encoded
	}
	query := `
		UPDATE finances
		SET amount = COALESCE($3, amount),
			description = COALESCE($4, description),
			date = COALESCE($5, date),
			category = COALESCE($6, category),
			tags = COALESCE($7::jsonb, tags),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + financeColumns
	f, err := scanFinance(q.QueryRow(ctx, query, id, user, patch.Amount, patch.Description, patch.Date, patch.Category, tags))
	if err != nil {
		return nil, database.MapError(err)
	}
	return &f, nil
}

func DeleteFinance(ctx context.Context, q database.Querier, user string, id uuid.UUID) error {
	query := `DELETE FROM finances WHERE id = $1 AND user_id = $2`
	cmd, err := q.Exec(ctx, query, id, user)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
