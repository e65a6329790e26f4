// Package progress aggregates a user's finished sessions into daily
// totals and evaluates them against the configured daily goal.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// Daily is one day's study totals. CardsCompleted counts tasks
// committed at session start, not just answered ones; an ended session
// contributes its whole snapshotted scope.
type Daily struct {
	CardsCompleted    int  `json:"cardsCompleted"`
	MinutesSpent      int  `json:"minutesSpent"`
	SessionsCompleted int  `json:"sessionsCompleted"`
	GoalMet           bool `json:"goalMet"`
}

// Aggregator computes daily progress from ended sessions.
type Aggregator interface {
	// DailyProgress totals the user's sessions ended on referenceDay's
	// local calendar date or later, and evaluates the daily goal.
	DailyProgress(ctx context.Context, userID uuid.UUID, referenceDay time.Time) (*Daily, error)
}

// Verify interface compliance at compile time
var _ Aggregator = (*aggregator)(nil)

type aggregator struct {
	sessionStore  store.SessionStore
	settingsStore store.StudySettingsStore
	location      *time.Location
	logger        *slog.Logger
}

// NewAggregator creates a new progress Aggregator. If location is nil,
// time.Local is used for day boundaries; if logger is nil, a default
// logger is used.
func NewAggregator(
	sessionStore store.SessionStore,
	settingsStore store.StudySettingsStore,
	location *time.Location,
	logger *slog.Logger,
) Aggregator {
	if sessionStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessionStore cannot be nil")
	}
	if settingsStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("settingsStore cannot be nil")
	}

	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &aggregator{
		sessionStore:  sessionStore,
		settingsStore: settingsStore,
		location:      location,
		logger:        logger.With(slog.String("component", "progress_aggregator")),
	}
}

// DailyProgress implements Aggregator.DailyProgress.
func (a *aggregator) DailyProgress(
	ctx context.Context,
	userID uuid.UUID,
	referenceDay time.Time,
) (*Daily, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	local := referenceDay.In(a.location)
	since := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.location)

	sessions, err := a.sessionStore.ListEndedSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list ended sessions: %w", err)
	}

	daily := &Daily{SessionsCompleted: len(sessions)}
	for _, s := range sessions {
		daily.CardsCompleted += len(s.Tasks)
		daily.MinutesSpent += int(math.Round(
			float64(s.Duration().Milliseconds()) / 60000.0))
	}

	settings, err := a.settingsStore.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrSettingsNotFound) {
			return nil, fmt.Errorf("failed to load study settings: %w", err)
		}
		settings = domain.DefaultStudySettings(userID)
	}
	daily.GoalMet = IsDailyGoalMet(settings, daily.SessionsCompleted, daily.MinutesSpent)

	log.Debug("computed daily progress",
		slog.String("user_id", userID.String()),
		slog.Int("sessions", daily.SessionsCompleted),
		slog.Int("minutes", daily.MinutesSpent),
		slog.Bool("goal_met", daily.GoalMet))

	return daily, nil
}

// IsDailyGoalMet evaluates the day's totals against the configured goal
// mode: minutes mode checks time only, hybrid passes on either
// threshold, and sessions mode (the default) checks session count.
func IsDailyGoalMet(settings *domain.StudySettings, sessions, minutes int) bool {
	switch settings.DailyGoalMode {
	case domain.DailyGoalModeMinutes:
		return minutes >= settings.MinMinutesPerDay
	case domain.DailyGoalModeHybrid:
		return sessions >= settings.MinSessionsPerDay ||
			minutes >= settings.MinMinutesPerDay
	default:
		return sessions >= settings.MinSessionsPerDay
	}
}
