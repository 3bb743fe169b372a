package journey

import (
	"context"
	"fmt"
)

var ErrTooManyLegs = fmt.Errorf("a journey has at most %d legs", MaxLegs)

// LegError ties a failure to the position of the leg that caused it.
type LegError struct {
	Index int
	Err   error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("leg %d: %v", e.Index, e.Err)
}

func (e *LegError) Unwrap() error { return e.Err }

// Run builds a journey from legs in order: every leg but the last is
// committed and the last one is submitted staged.
func Run(ctx context.Context, q Quoter, legs []Leg) (Result, error) {
	if len(legs) == 0 {
		return Result{}, ErrEmptyJourney
	}
	if len(legs) > MaxLegs {
		return Result{}, ErrTooManyLegs
	}

	b := New(q)
	for i, leg := range legs {
		if err := b.Select(leg); err != nil {
			return Result{}, &LegError{Index: i, Err: err}
		}
		if b.Reentry() {
			return Result{}, &LegError{Index: i, Err: ErrReentry}
		}
		if _, err := b.Price(ctx); err != nil {
			return Result{}, &LegError{Index: i, Err: err}
		}
		if i == len(legs)-1 {
			break
		}
		if err := b.Commit(); err != nil {
			return Result{}, &LegError{Index: i, Err: err}
		}
	}

	res, err := b.Submit()
	if err != nil {
		return Result{}, &LegError{Index: len(legs) - 1, Err: err}
	}
	return res, nil
}
