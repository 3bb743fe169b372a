// Package report computes the dashboard figures over a tenant's finance
// records.
package report

import (
	"fmt"
	"time"

	"financeio-server/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TagMode string

const (
	Include TagMode = "include"
	Exclude TagMode = "exclude"
)

// UnknownCategory is the bucket for records whose category no longer exists.
const UnknownCategory = "-"

func ParseTagMode(s string) (TagMode, error) {
	switch TagMode(s) {
	case "", Include:
		return Include, nil
	case Exclude:
		return Exclude, nil
	}
	return "", fmt.Errorf("unknown tag mode %q", s)
}

// Filter selects the records a summary covers. From and To are calendar
// days and both are inclusive. Tag filtering applies only when TagIDs is
// non-empty.
type Filter struct {
	From   *time.Time
	To     *time.Time
	TagIDs []uuid.UUID
	Mode   TagMode
}

type Summary struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	Average    decimal.Decimal            `json:"average"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
	Highest    *models.FinanceRecord      `json:"highest"`
	Lowest     *models.FinanceRecord      `json:"lowest"`
}

func Summarize(records []models.FinanceRecord, categories []models.Category, f Filter) Summary {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID.String()] = c.Description
	}

	s := Summary{
		Total:      decimal.Zero,
		Average:    decimal.Zero,
		ByCategory: map[string]decimal.Decimal{},
	}
	for i := range records {
		r := records[i]
		if !f.matchesDate(r.Date) || !f.matchesTags(r.Tags) {
			continue
		}

		s.Total = s.Total.Add(r.Amount)
		s.Count++

		name, ok := names[r.Category]
		if !ok {
			name = UnknownCategory
		}
		s.ByCategory[name] = s.ByCategory[name].Add(r.Amount)

		// ties go to the later record
		if s.Highest == nil || !s.Highest.Amount.GreaterThan(r.Amount) {
			s.Highest = &r
		}
		if s.Lowest == nil || !s.Lowest.Amount.LessThan(r.Amount) {
			s.Lowest = &r
		}
	}
	if s.Count > 0 {
		s.Average = s.Total.DivRound(decimal.NewFromInt(int64(s.Count)), 2)
	}
	return s
}

func (f Filter) matchesDate(d time.Time) bool {
	if f.From != nil && d.Before(*f.From) {
		return false
	}
	if f.To != nil && !d.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (f Filter) matchesTags(tags []models.TagRef) bool {
	if len(f.TagIDs) == 0 {
		return true
	}
	has := false
	for _, t := range tags {
		for _, id := range f.TagIDs {
			if t.ID == id {
				has = true
			}
		}
	}
	if f.Mode == Exclude {
		return !has
	}
	return has
}
