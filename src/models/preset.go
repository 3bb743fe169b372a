package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Preset is a template used to prefill a finance record. It stores only tag
// ids; Tags is filled from the owner's current tags on every read.
type Preset struct {
	ID          uuid.UUID       `json:"id"`
	User        string          `json:"user"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	TagIDs      []uuid.UUID     `json:"-"`
	Tags        []TagRef        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PresetPatch struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	TagIDs      *[]uuid.UUID
}
