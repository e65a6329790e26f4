package srs

import (
	"time"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// calculateNewLevel determines the next spaced-repetition level after a
// review.
//
// A wrong answer resets the level to 0 so the card cycles back through
// the short intervals. A correct answer (typos included) moves the card
// up one level, capped at params.MaxLevel.
func calculateNewLevel(currentLevel int, correct bool, params *Params) int {
	if !correct {
		return 0
	}

	next := currentLevel + 1
	if next > params.MaxLevel {
		next = params.MaxLevel
	}
	return next
}

// intervalForLevel returns the duration until the next review for a
// card at the given level.
//
// Level 0 maps to a short minutes-scale window so new and just-missed
// cards come back almost immediately; every other level maps to a
// whole number of days from the interval table. The table is strictly
// increasing, which makes the whole function monotonic in level.
func intervalForLevel(level int, params *Params) time.Duration {
	if level <= 0 {
		return time.Duration(params.Level0ReviewMinutes) * time.Minute
	}

	if level > params.MaxLevel {
		level = params.MaxLevel
	}
	return time.Duration(params.IntervalDays[level-1]) * 24 * time.Hour
}

// sameLocalDay reports whether a and b fall on the same calendar date
// in the given location. A zero time never matches anything, so a
// never-reviewed card always triggers a reset.
func sameLocalDay(a, b time.Time, loc *time.Location) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}

	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// resetDailyCounters zeroes the today counters when the state was last
// reviewed on an earlier calendar date than now. It mutates the given
// state and reports whether a reset happened.
//
// This is the single authoritative reset, owned by the grading write
// path, and running it twice for the same day is a no-op.
func resetDailyCounters(state *domain.ReviewState, now time.Time, params *Params) bool {
	if sameLocalDay(state.LastReviewedAt, now, params.Location) {
		return false
	}

	if state.TodayCorrect == 0 && state.TodayWrong == 0 {
		return false
	}

	state.TodayCorrect = 0
	state.TodayWrong = 0
	return true
}

// calculateNextState creates a new ReviewState with updated values
// after a review.
//
// The original state is never modified: a complete copy is taken, the
// day-boundary reset runs first, then lifetime and daily counters are
// incremented, the level transition is applied, and the next due date
// is computed as now + interval(new level).
func calculateNextState(
	state *domain.ReviewState,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	newState := &domain.ReviewState{
		UserID:         state.UserID,
		CardID:         state.CardID,
		Level:          state.Level,
		DueAt:          state.DueAt,
		TotalCorrect:   state.TotalCorrect,
		TotalWrong:     state.TotalWrong,
		TodayCorrect:   state.TodayCorrect,
		TodayWrong:     state.TodayWrong,
		LastReviewedAt: state.LastReviewedAt,
		CreatedAt:      state.CreatedAt,
		UpdatedAt:      state.UpdatedAt,
	}

	// Reset today's counters before incrementing them so the first
	// review of a new day starts the tallies from zero.
	resetDailyCounters(newState, now, params)

	if correct {
		newState.TotalCorrect++
		newState.TodayCorrect++
	} else {
		newState.TotalWrong++
		newState.TodayWrong++
	}

	newState.Level = calculateNewLevel(state.Level, correct, params)
	newState.DueAt = now.Add(intervalForLevel(newState.Level, params))
	newState.LastReviewedAt = now
	newState.UpdatedAt = now

	return newState
}
