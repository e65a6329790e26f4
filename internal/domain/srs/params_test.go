package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultParamsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, NewDefaultParams().Validate())
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		IntervalDays:        []int{1, 3, 9},
		Level0ReviewMinutes: 5,
		Location:            time.UTC,
	})

	assert.Equal(t, 3, params.MaxLevel, "max level follows a custom interval table")
	assert.Equal(t, []int{1, 3, 9}, params.IntervalDays)
	assert.Equal(t, 5, params.Level0ReviewMinutes)
	assert.Equal(t, time.UTC, params.Location)
	require.NoError(t, params.Validate())
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*Params)
	}{
		{
			name:   "interval table shorter than max level",
			mutate: func(p *Params) { p.IntervalDays = p.IntervalDays[:3] },
		},
		{
			name:   "non increasing interval table",
			mutate: func(p *Params) { p.IntervalDays[3] = p.IntervalDays[2] },
		},
		{
			name:   "zero level0 window",
			mutate: func(p *Params) { p.Level0ReviewMinutes = 0 },
		},
		{
			name:   "level0 window longer than first interval",
			mutate: func(p *Params) { p.Level0ReviewMinutes = 2 * 24 * 60 },
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := NewDefaultParams()
			tc.mutate(params)
			assert.ErrorIs(t, params.Validate(), ErrInvalidParams)
		})
	}
}
