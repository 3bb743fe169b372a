package lta

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"financeio-server/src/models"

	"github.com/shopspring/decimal"
)

type fareResponse struct {
	Fare        json.RawMessage `json:"fare"`
	TripInfo    string          `json:"tripInfo"`
	AddTripInfo string          `json:"addTripInfo"`
}

// ParseFare reads an upstream fare response. The fare field is in cents and
// may be a string or a number; only its integer part counts.
func ParseFare(body []byte) (models.FareQuote, error) {
	var resp fareResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.FareQuote{}, fmt.Errorf("decode fare response: %w", err)
	}
	cents, err := parseCents(resp.Fare)
	if err != nil {
		return models.FareQuote{}, err
	}
	return models.FareQuote{
		Fare:        decimal.New(cents, -2),
		TripInfo:    resp.TripInfo,
		AddTripInfo: resp.AddTripInfo,
	}, nil
}

func parseCents(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: fare missing", ErrUnexpectedShape)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode fare: %w", err)
	}
	switch f := v.(type) {
	case float64:
		return int64(math.Trunc(f)), nil
	case string:
		return leadingInt(f)
	}
	return 0, fmt.Errorf("%w: fare is %s", ErrUnexpectedShape, string(raw))
}

// leadingInt parses the optional sign and digits at the start of s.
func leadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, fmt.Errorf("%w: fare %q is not a number", ErrUnexpectedShape, s)
	}
	return strconv.ParseInt(s[:end], 10, 64)
}
