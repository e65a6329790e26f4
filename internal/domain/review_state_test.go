package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewState(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	state, err := NewReviewState(userID, cardID)
	require.NoError(t, err)

	assert.Equal(t, userID, state.UserID)
	assert.Equal(t, cardID, state.CardID)
	assert.Equal(t, 0, state.Level)
	assert.True(t, state.LastReviewedAt.IsZero())
	assert.False(t, state.DueAt.After(time.Now().UTC().Add(time.Second)),
		"new cards are due immediately")
}

func TestReviewStateValidate(t *testing.T) {
	t.Parallel()

	valid := func() *ReviewState {
		return &ReviewState{
			UserID: uuid.New(),
			CardID: uuid.New(),
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*ReviewState)
		wantErr error
	}{
		{
			name:    "valid state",
			mutate:  func(s *ReviewState) {},
			wantErr: nil,
		},
		{
			name:    "missing user ID",
			mutate:  func(s *ReviewState) { s.UserID = uuid.Nil },
			wantErr: ErrEmptyStateUserID,
		},
		{
			name:    "missing card ID",
			mutate:  func(s *ReviewState) { s.CardID = uuid.Nil },
			wantErr: ErrEmptyStateCardID,
		},
		{
			name:    "negative level",
			mutate:  func(s *ReviewState) { s.Level = -1 },
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "negative counter",
			mutate:  func(s *ReviewState) { s.TodayWrong = -2 },
			wantErr: ErrInvalidCounter,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			state := valid()
			tc.mutate(state)

			err := state.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestReviewStateIsDue(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	state := &ReviewState{UserID: uuid.New(), CardID: uuid.New()}

	state.DueAt = ref
	assert.True(t, state.IsDue(ref), "due exactly at the reference instant is due")

	state.DueAt = ref.Add(-time.Second)
	assert.True(t, state.IsDue(ref))

	state.DueAt = ref.Add(time.Second)
	assert.False(t, state.IsDue(ref))
}
