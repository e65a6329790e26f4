package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInProgressTest(t *testing.T, started time.Time) *Test {
	t.Helper()
	test, err := NewTest(uuid.New(), uuid.New(), nil, nil, 10, true, started)
	require.NoError(t, err)
	return test
}

func TestNewTest(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	test := newInProgressTest(t, started)

	assert.Equal(t, TestStatusInProgress, test.Status)
	assert.Nil(t, test.FinishedAt)
	assert.Equal(t, 10, test.QuestionCount)
}

func TestTestFinalizeScoring(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(12 * time.Minute)

	test := newInProgressTest(t, started)
	require.NoError(t, test.Finalize(7, 10, ended))

	assert.Equal(t, TestStatusFinished, test.Status)
	assert.Equal(t, 10, test.ScoreTotal)
	assert.Equal(t, 7, test.ScoreCorrect)
	assert.Equal(t, 70, test.ScorePercent)
	assert.Equal(t, int64(12*60*1000), test.DurationMs)
	require.NotNil(t, test.FinishedAt)
	assert.Equal(t, ended, *test.FinishedAt)
}

func TestTestFinalizeRounding(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		correct int
		total   int
		percent int
	}{
		{name: "two thirds rounds up", correct: 2, total: 3, percent: 67},
		{name: "one third rounds down", correct: 1, total: 3, percent: 33},
		{name: "exact half", correct: 1, total: 2, percent: 50},
		{name: "all correct", correct: 5, total: 5, percent: 100},
		{name: "none correct", correct: 0, total: 5, percent: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			test := newInProgressTest(t, time.Now().UTC())
			require.NoError(t, test.Finalize(tc.correct, tc.total, time.Now().UTC()))
			assert.Equal(t, tc.percent, test.ScorePercent)
		})
	}
}

func TestTestFinalizeAbandoned(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	test := newInProgressTest(t, started)
	require.NoError(t, test.Finalize(0, 0, started.Add(time.Minute)))

	assert.Equal(t, TestStatusAbandoned, test.Status)
	assert.Equal(t, 0, test.ScorePercent)
}

func TestTestFinalizeClampsNegativeDuration(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	test := newInProgressTest(t, started)
	require.NoError(t, test.Finalize(1, 1, started.Add(-time.Minute)))

	assert.Equal(t, int64(0), test.DurationMs)
}

func TestTestFinalizeTerminal(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	test := newInProgressTest(t, started)
	require.NoError(t, test.Finalize(3, 4, started.Add(time.Minute)))

	err := test.Finalize(4, 4, started.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrTestAlreadyEnded)
	assert.Equal(t, 3, test.ScoreCorrect, "terminal test must not change")
}
