// Package journey prices multi-leg public transport journeys against the
// LTA fare calculator. The upstream is stateful: every leg is priced with
// the continuation tokens returned for the leg before it.
package journey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financeio-server/src/models"

	"github.com/shopspring/decimal"
)

const (
	// InitialTripInfo is the token pair a journey starts from.
	InitialTripInfo    = "usiAccumulatedDistance1=0-usiAccumulatedDistance2=0-usiAccumulatedDistance3=0-usiAccumulatedDistance4=0-usiAccumulatedDistance5=0-usiAccumulatedDistance6=0-usiAccumulatedFare1=0-usiAccumulatedFare2=0-usiAccumulatedFare3=0-usiAccumulatedFare4=0-usiAccumulatedFare5=0-usiAccumulatedFare6=0"
	InitialAddTripInfo = "0"
	// FareType selects the adult card fare table upstream.
	FareType = "30"
	// MaxLegs is how many committed legs are kept; older ones are dropped.
	MaxLegs = 5
)

var (
	ErrReentry      = errors.New("leg re-enters at the previous stop or on a related bus")
	ErrNotPriced    = errors.New("leg has not been priced")
	ErrNoLeg        = errors.New("no leg selected")
	ErrEmptyJourney = errors.New("journey has no legs")
	ErrInvalidLeg   = errors.New("invalid leg")
)

// Quoter prices a single fare request.
type Quoter interface {
	Quote(ctx context.Context, mode models.TransportMode, req models.FareRequest) (models.FareQuote, error)
}

type State int

const (
	Idle State = iota
	LegSelected
	LegPriced
	LegCommitted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LegSelected:
		return "leg selected"
	case LegPriced:
		return "leg priced"
	case LegCommitted:
		return "leg committed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Leg is one ride. From and To are station codes for MRT and bus stop ids
// for buses; the names are for display only.
type Leg struct {
	Mode     models.TransportMode `json:"mode"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Bus      string               `json:"bus,omitempty"`
	FromName string               `json:"fromName,omitempty"`
	ToName   string               `json:"toName,omitempty"`
}

func (l Leg) Validate() error {
	switch l.Mode {
	case models.ModeMRT:
	case models.ModeBus:
		if l.Bus == "" {
			return fmt.Errorf("%w: bus number is required", ErrInvalidLeg)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidLeg, l.Mode)
	}
	if l.From == "" || l.To == "" {
		return fmt.Errorf("%w: from and to are required", ErrInvalidLeg)
	}
	return nil
}

func (l Leg) Description() string {
	from, to := l.FromName, l.ToName
	if from == "" {
		from = l.From
	}
	if to == "" {
		to = l.To
	}
	if l.Mode == models.ModeBus {
		return fmt.Sprintf("Bus %s: %s - %s", l.Bus, from, to)
	}
	return fmt.Sprintf("MRT: %s - %s", from, to)
}

func (l Leg) request(tripInfo, addTripInfo string) models.FareRequest {
	req := models.FareRequest{
		Fare:        FareType,
		From:        l.From,
		To:          l.To,
		TripInfo:    tripInfo,
		AddTripInfo: addTripInfo,
	}
	if l.Mode == models.ModeBus {
		req.Bus = l.Bus
	}
	return req
}

type Trip struct {
	Fare        decimal.Decimal `json:"fare"`
	Description string          `json:"description"`
	Leg         Leg             `json:"leg"`
}

type Result struct {
	TotalFare   decimal.Decimal `json:"totalFare"`
	Description string          `json:"description"`
	Trips       []Trip          `json:"trips"`
}

// Builder accumulates legs for one journey. It is not safe for concurrent use.
type Builder struct {
	quoter Quoter
	state  State
	trips  []Trip

	staged  Leg
	priced  *models.FareQuote
	reentry bool

	tripInfo    string
	addTripInfo string
}

func New(q Quoter) *Builder {
	b := &Builder{quoter: q}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.state = Idle
	b.trips = nil
	b.staged = Leg{}
	b.priced = nil
	b.reentry = false
	b.tripInfo = InitialTripInfo
	b.addTripInfo = InitialAddTripInfo
}

func (b *Builder) State() State { return b.state }

// Reentry reports whether the staged leg carries a re-entry warning.
func (b *Builder) Reentry() bool { return b.reentry }

// Tokens returns the continuation tokens after the last priced leg.
func (b *Builder) Tokens() (tripInfo, addTripInfo string) {
	return b.tripInfo, b.addTripInfo
}

func (b *Builder) Trips() []Trip {
	out := make([]Trip, len(b.trips))
	copy(out, b.trips)
	return out
}

// Select stages leg, replacing any staged leg and its price.
func (b *Builder) Select(leg Leg) error {
	if err := leg.Validate(); err != nil {
		return err
	}
	b.staged = leg
	b.priced = nil
	b.reentry = false
	if n := len(b.trips); n > 0 {
		b.reentry = isReentry(b.trips[n-1].Leg, leg)
	}
	b.state = LegSelected
	return nil
}

// Price replays the committed legs from the initial tokens and then prices
// the staged leg with the resulting pair.
func (b *Builder) Price(ctx context.Context) (decimal.Decimal, error) {
	if b.state != LegSelected && b.state != LegPriced {
		return decimal.Zero, ErrNoLeg
	}

	tripInfo, addTripInfo := InitialTripInfo, InitialAddTripInfo
	for i, t := range b.trips {
		q, err := b.quoter.Quote(ctx, t.Leg.Mode, t.Leg.request(tripInfo, addTripInfo))
		if err != nil {
			return decimal.Zero, fmt.Errorf("replay leg %d: %w", i, err)
		}
		tripInfo, addTripInfo = q.TripInfo, q.AddTripInfo
	}

	q, err := b.quoter.Quote(ctx, b.staged.Mode, b.staged.request(tripInfo, addTripInfo))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price leg: %w", err)
	}
	b.priced = &q
	b.tripInfo, b.addTripInfo = q.TripInfo, q.AddTripInfo
	b.state = LegPriced
	return q.Fare, nil
}

// Commit appends the priced leg to the journey.
func (b *Builder) Commit() error {
	if b.state != LegPriced || b.priced == nil {
		return ErrNotPriced
	}
	if b.reentry {
		return ErrReentry
	}
	b.trips = append(b.trips, Trip{Fare: b.priced.Fare, Description: b.staged.Description(), Leg: b.staged})
	if len(b.trips) > MaxLegs {
		b.trips = b.trips[len(b.trips)-MaxLegs:]
	}
	b.staged = Leg{}
	b.priced = nil
	b.state = LegCommitted
	return nil
}

// Submit totals the committed legs plus the staged priced leg, if any, and
// resets the builder.
func (b *Builder) Submit() (Result, error) {
	if b.reentry {
		return Result{}, ErrReentry
	}
	if b.state == LegSelected {
		return Result{}, ErrNotPriced
	}

	trips := b.Trips()
	if b.state == LegPriced && b.priced != nil {
		trips = append(trips, Trip{Fare: b.priced.Fare, Description: b.staged.Description(), Leg: b.staged})
	}
	if len(trips) == 0 {
		return Result{}, ErrEmptyJourney
	}

	total := decimal.Zero
	descriptions := make([]string, 0, len(trips))
	for _, t := range trips {
		total = total.Add(t.Fare)
		descriptions = append(descriptions, t.Description)
	}
	b.reset()
	return Result{TotalFare: total, Description: strings.Join(descriptions, ", "), Trips: trips}, nil
}

// Cancel discards the journey.
func (b *Builder) Cancel() {
	b.reset()
}

func isReentry(prev, next Leg) bool {
	if prev.Mode != next.Mode {
		return false
	}
	if next.From == prev.To {
		return true
	}
	return next.Mode == models.ModeBus && relatedBus(prev.Bus, next.Bus)
}

// relatedBus compares service numbers by their digits, so 10 and 10e match.
func relatedBus(a, b string) bool {
	da, db := digits(a), digits(b)
	return da != "" && da == db
}

func digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
