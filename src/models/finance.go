package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// FinanceRecord is a single income or expense entry owned by one tenant.
// Tags are snapshots taken when the record was written.
type FinanceRecord struct {
	ID          uuid.UUID       `json:"id"`
	User        string          `json:"user"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Tags        []TagRef        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FinancePatch carries the fields of a partial update; nil means unchanged.
type FinancePatch struct {
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
	Category    *string
	Tags        *[]TagRef
}

// FinanceFilter narrows a finance listing. Zero values are ignored.
type FinanceFilter struct {
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	Category string
}
