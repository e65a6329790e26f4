package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DailyGoalMode selects how a user's daily study goal is evaluated.
type DailyGoalMode string

// Supported daily goal modes.
const (
	DailyGoalModeSessions DailyGoalMode = "sessions"
	DailyGoalModeMinutes  DailyGoalMode = "minutes"
	DailyGoalModeHybrid   DailyGoalMode = "hybrid"
)

// StudySettings validation errors
var (
	ErrSettingsUserIDEmpty  = errors.New("study settings user ID cannot be empty")
	ErrInvalidDailyGoalMode = errors.New("invalid daily goal mode")
	ErrInvalidGoalThreshold = errors.New("goal thresholds must be greater than 0")
	ErrInvalidMixWeights    = errors.New("mode mix weights cannot be negative")
	ErrInvalidMaxNewPerDay  = errors.New("max new cards per day cannot be negative")
	ErrAllMixWeightsAreZero = errors.New("at least one mode mix weight must be positive")
)

// StudySettings is per-user study configuration. The engine only reads
// it: daily goal evaluation, new-card caps, and mixed-mode weighting all
// consult these values, but never mutate them.
type StudySettings struct {
	UserID            uuid.UUID     `json:"user_id"`
	DailyGoalMode     DailyGoalMode `json:"daily_goal_mode"`
	MinSessionsPerDay int           `json:"min_sessions_per_day"`
	MinMinutesPerDay  int           `json:"min_minutes_per_day"`
	MixTranslate      int           `json:"mix_translate"`
	MixAbcd           int           `json:"mix_abcd"`
	MixSentence       int           `json:"mix_sentence"`
	MaxNewPerDay      int           `json:"max_new_per_day"`
	Shuffle           bool          `json:"shuffle"`
	Sound             bool          `json:"sound"`
	AutoAdvance       bool          `json:"auto_advance"`
	DarkMode          bool          `json:"dark_mode"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// DefaultStudySettings returns the settings applied to users who have
// never customized anything. Used as the fallback when no settings row
// exists yet.
func DefaultStudySettings(userID uuid.UUID) *StudySettings {
	now := time.Now().UTC()
	return &StudySettings{
		UserID:            userID,
		DailyGoalMode:     DailyGoalModeSessions,
		MinSessionsPerDay: 1,
		MinMinutesPerDay:  10,
		MixTranslate:      60,
		MixAbcd:           25,
		MixSentence:       15,
		MaxNewPerDay:      20,
		Shuffle:           true,
		Sound:             true,
		AutoAdvance:       false,
		DarkMode:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate checks if the StudySettings has valid data.
func (s *StudySettings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrSettingsUserIDEmpty
	}

	switch s.DailyGoalMode {
	case DailyGoalModeSessions, DailyGoalModeMinutes, DailyGoalModeHybrid:
	default:
		return ErrInvalidDailyGoalMode
	}

	if s.MinSessionsPerDay <= 0 || s.MinMinutesPerDay <= 0 {
		return ErrInvalidGoalThreshold
	}

	if s.MixTranslate < 0 || s.MixAbcd < 0 || s.MixSentence < 0 {
		return ErrInvalidMixWeights
	}

	if s.MixTranslate+s.MixAbcd+s.MixSentence == 0 {
		return ErrAllMixWeightsAreZero
	}

	if s.MaxNewPerDay < 0 {
		return ErrInvalidMaxNewPerDay
	}

	return nil
}
