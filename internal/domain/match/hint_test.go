package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		answer   string
		expected string
	}{
		{
			name:     "single word",
			answer:   "cat",
			expected: "c _ _",
		},
		{
			name:     "single character unchanged",
			answer:   "a",
			expected: "a",
		},
		{
			name:     "empty string unchanged",
			answer:   "",
			expected: "",
		},
		{
			name:     "two words joined with two spaces",
			answer:   "ok go",
			expected: "o _  g _",
		},
		{
			name:     "one-letter word kept as is",
			answer:   "a dog",
			expected: "a  d _ _",
		},
		{
			name:     "surrounding whitespace ignored",
			answer:   "  cat  ",
			expected: "c _ _",
		},
		{
			name:     "multi-byte first letter preserved",
			answer:   "être",
			expected: "ê _ _ _",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Hint(tc.answer))
		})
	}
}
