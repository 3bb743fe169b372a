package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_MarshalJSON(t *testing.T) {
	bus := Bus{
		ID: "10",
		Routes: []BusRoute{{
			Description: "Kent Ridge Ter - Tampines Int",
			BusStops:    []BusStop{{ID: "16009", Code: "1", Order: "1", Name: "Kent Ridge Ter"}},
		}},
	}

	raw, err := json.Marshal(bus)
	require.NoError(t, err)
	assert.JSONEq(t, `["10", {"description": "Kent Ridge Ter - Tampines Int",
		"busStops": [{"id": "16009", "code": "1", "order": "1", "name": "Kent Ridge Ter"}]}]`, string(raw))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("mrt")
	require.NoError(t, err)
	assert.Equal(t, ModeMRT, m)

	m, err = ParseMode("Bus")
	require.NoError(t, err)
	assert.Equal(t, ModeBus, m)

	_, err = ParseMode("ferry")
	assert.Error(t, err)
}

func TestResolveTags(t *testing.T) {
	food := Tag{ID: uuid.New(), Name: "food", Color: "#ff0000"}
	work := Tag{ID: uuid.New(), Name: "work", Color: "#00ff00"}
	gone := uuid.New()

	refs := ResolveTags([]Tag{food, work}, []uuid.UUID{work.ID, gone, food.ID, work.ID}, TagSnapshot)

	require.Len(t, refs, 2)
	assert.Equal(t, TagRef{ID: work.ID, Name: "work", Color: "#00ff00", Kind: TagSnapshot}, refs[0])
	assert.Equal(t, food.ID, refs[1].ID)
}

func TestFinanceRecord_AmountIsNumber(t *testing.T) {
	raw, err := json.Marshal(FinanceRecord{Amount: decimal.RequireFromString("12.50")})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 12.5, out["amount"])
}
