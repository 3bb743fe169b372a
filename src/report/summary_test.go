package report

import (
	"testing"
	"time"

	"financeio-server/src/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	food := models.Category{ID: uuid.New(), Description: "Food"}
	travel := models.Category{ID: uuid.New(), Description: "Travel"}
	work := uuid.New()

	records := []models.FinanceRecord{
		{Description: "lunch", Amount: decimal.RequireFromString("12.50"), Date: day(2024, 3, 1, 12), Category: food.ID.String()},
		{Description: "mrt", Amount: decimal.RequireFromString("1.57"), Date: day(2024, 3, 2, 8), Category: travel.ID.String(),
			Tags: []models.TagRef{{ID: work, Name: "work", Kind: models.TagSnapshot}}},
		{Description: "gift", Amount: decimal.RequireFromString("30"), Date: day(2024, 3, 31, 23), Category: "deleted"},
		{Description: "old", Amount: decimal.RequireFromString("99"), Date: day(2024, 2, 28, 9), Category: food.ID.String()},
	}
	cats := []models.Category{food, travel}

	t.Run("date range is inclusive of the last day", func(t *testing.T) {
		from, to := day(2024, 3, 1, 0), day(2024, 3, 31, 0)
		s := Summarize(records, cats, Filter{From: &from, To: &to})

		assert.Equal(t, 3, s.Count)
		assert.True(t, s.Total.Equal(decimal.RequireFromString("44.07")))
		assert.True(t, s.Average.Equal(decimal.RequireFromString("14.69")))
		assert.True(t, s.ByCategory["Food"].Equal(decimal.RequireFromString("12.5")))
		assert.True(t, s.ByCategory[UnknownCategory].Equal(decimal.NewFromInt(30)))
		require.NotNil(t, s.Highest)
		assert.Equal(t, "gift", s.Highest.Description)
		assert.Equal(t, "mrt", s.Lowest.Description)
	})

	t.Run("include tags", func(t *testing.T) {
		s := Summarize(records, cats, Filter{TagIDs: []uuid.UUID{work}, Mode: Include})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, "mrt", s.Highest.Description)
	})

	t.Run("exclude tags", func(t *testing.T) {
		s := Summarize(records, cats, Filter{TagIDs: []uuid.UUID{work}, Mode: Exclude})
		assert.Equal(t, 3, s.Count)
	})

	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil, cats, Filter{})
		assert.Zero(t, s.Count)
		assert.True(t, s.Average.IsZero())
		assert.Nil(t, s.Highest)
		assert.NotNil(t, s.ByCategory)
	})
}

func TestParseTagMode(t *testing.T) {
	m, err := ParseTagMode("")
	require.NoError(t, err)
	assert.Equal(t, Include, m)

	_, err = ParseTagMode("both")
	assert.Error(t, err)
}
