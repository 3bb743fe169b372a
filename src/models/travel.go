package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type TransportMode string

const (
	ModeMRT TransportMode = "MRT"
	ModeBus TransportMode = "Bus"
)

// ParseMode accepts the mode names case-insensitively.
func ParseMode(s string) (TransportMode, error) {
	switch s {
	case "MRT", "mrt", "Mrt":
		return ModeMRT, nil
	case "Bus", "bus", "BUS":
		return ModeBus, nil
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

type Station struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type BusStop struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Order string `json:"order"`
	Name  string `json:"name"`
}

type BusRoute struct {
	Description string    `json:"description"`
	BusStops    []BusStop `json:"busStops"`
}

// Bus is one service number with its directional routes. It encodes as
// [id, route, route...] which is what the web client expects.
type Bus struct {
	ID     string
	Routes []BusRoute
}

func (b Bus) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(b.Routes)+1)
	out = append(out, b.ID)
	for _, r := range b.Routes {
		out = append(out, r)
	}
	return json.Marshal(out)
}

// FareRequest is the form the upstream fare calculator accepts. TripInfo and
// AddTripInfo are opaque continuation tokens and are passed through as is.
type FareRequest struct {
	Fare        string `json:"fare"`
	From        string `json:"from"`
	To          string `json:"to"`
	TripInfo    string `json:"tripInfo"`
	AddTripInfo string `json:"addTripInfo"`
	Bus         string `json:"bus,omitempty"`
}

// FareQuote is the priced result of one FareRequest together with the
// continuation tokens for the next leg.
type FareQuote struct {
	Fare        decimal.Decimal `json:"fare"`
	TripInfo    string          `json:"tripInfo"`
	AddTripInfo string          `json:"addTripInfo"`
}
