// Package srs implements the spaced-repetition scheduler: the level
// state machine each card's review state moves through, the interval
// curve mapping levels to due dates, and the daily counter bookkeeping
// with its local-day reset.
package srs

import (
	"errors"
	"time"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// Common errors
var (
	ErrNilState      = errors.New("review state cannot be nil")
	ErrInvalidParams = errors.New("invalid scheduler parameters")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// ApplyReview computes the next review state after grading. A
	// correct answer (typo tolerance included) advances the level; a
	// wrong answer resets it. Returns a new state, never modifying the
	// input.
	ApplyReview(
		state *domain.ReviewState,
		correct bool,
		now time.Time,
	) (*domain.ReviewState, error)

	// IntervalFor exposes the interval curve for a given level.
	IntervalFor(level int) time.Duration
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default
// parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom
// parameters. Returns an error if the parameters violate the interval
// curve invariants.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &defaultService{
		params: params,
	}, nil
}

// ApplyReview implements the Service interface.
func (s *defaultService) ApplyReview(
	state *domain.ReviewState,
	correct bool,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	return calculateNextState(state, correct, now, s.params), nil
}

// IntervalFor implements the Service interface.
func (s *defaultService) IntervalFor(level int) time.Duration {
	return intervalForLevel(level, s.params)
}
