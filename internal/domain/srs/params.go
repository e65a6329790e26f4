package srs

import "time"

// Params defines all configurable parameters for the scheduling
// algorithm.
//
// Levels index into IntervalDays: a card at level n (n >= 1) is next
// due IntervalDays[n-1] days after its review. Level 0 cards (new or
// just missed) are due again after Level0ReviewMinutes. The interval
// table must be strictly increasing so higher levels always schedule
// further out than lower ones.
type Params struct {
	// MaxLevel caps level growth. Correct answers past this level keep
	// the card at MaxLevel.
	MaxLevel int

	// IntervalDays maps level n to IntervalDays[n-1] days until the
	// next review. Must contain MaxLevel entries.
	IntervalDays []int

	// Level0ReviewMinutes is how soon a level-0 card comes back,
	// in minutes. This is always shorter than any entry of
	// IntervalDays, so a wrong answer reschedules sooner than any
	// correct one.
	Level0ReviewMinutes int

	// Location is the time zone whose calendar dates drive the daily
	// counter reset.
	Location *time.Location
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance.
type ParamsConfig struct {
	MaxLevel            int
	IntervalDays        []int
	Level0ReviewMinutes int
	Location            *time.Location
}

// NewDefaultParams creates a new Params instance with default values:
// a roughly exponential backoff from 1 day at level 1 to 120 days at
// level 8, and a 10 minute retry window for missed cards.
func NewDefaultParams() *Params {
	return &Params{
		MaxLevel:            8,
		IntervalDays:        []int{1, 2, 4, 7, 14, 30, 60, 120},
		Level0ReviewMinutes: 10,
		Location:            time.Local,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxLevel > 0 {
		params.MaxLevel = config.MaxLevel
	}
	if len(config.IntervalDays) > 0 {
		params.IntervalDays = config.IntervalDays
		if config.MaxLevel == 0 {
			params.MaxLevel = len(config.IntervalDays)
		}
	}
	if config.Level0ReviewMinutes > 0 {
		params.Level0ReviewMinutes = config.Level0ReviewMinutes
	}
	if config.Location != nil {
		params.Location = config.Location
	}

	return params
}

// Validate checks that the parameters satisfy the scheduling
// invariants: a full interval table, strictly increasing entries, and
// a level-0 window shorter than the first day interval.
func (p *Params) Validate() error {
	if p.MaxLevel < 1 {
		return ErrInvalidParams
	}

	if len(p.IntervalDays) != p.MaxLevel {
		return ErrInvalidParams
	}

	prev := 0
	for _, d := range p.IntervalDays {
		if d <= prev {
			return ErrInvalidParams
		}
		prev = d
	}

	if p.Level0ReviewMinutes < 1 || p.Level0ReviewMinutes >= p.IntervalDays[0]*24*60 {
		return ErrInvalidParams
	}

	return nil
}
