package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Haus",
			expected: "haus",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  der Hund  ",
			expected: "der hund",
		},
		{
			name:     "collapses internal whitespace runs",
			input:    "to   give \t up",
			expected: "to give up",
		},
		{
			name:     "strips trailing punctuation run",
			input:    "bonjour!?!",
			expected: "bonjour",
		},
		{
			name:     "keeps internal punctuation",
			input:    "isn't it",
			expected: "isn't it",
		},
		{
			name:     "punctuation then whitespace",
			input:    "ok . ",
			expected: "ok",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "diacritics preserved",
			input:    "  Être.  ",
			expected: "être",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Hello, World!", "  a  b  c  ", "déjà vu...", "", "?!"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", s)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		user     string
		expected string
		accepted []string
		want     bool
	}{
		{
			name:     "exact match",
			user:     "der Hund",
			expected: "der Hund",
			want:     true,
		},
		{
			name:     "match after normalization",
			user:     "  DER  hund! ",
			expected: "der Hund",
			want:     true,
		},
		{
			name:     "match against accepted alternative",
			user:     "the dog",
			expected: "der Hund",
			accepted: []string{"the dog", "hound"},
			want:     true,
		},
		{
			name:     "no match",
			user:     "die Katze",
			expected: "der Hund",
			accepted: []string{"the dog"},
			want:     false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Matches(tc.user, tc.expected, tc.accepted))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		user     string
		expected string
		accepted []string
		want     Result
	}{
		{
			name:     "exact answer is correct",
			user:     "apfel",
			expected: "Apfel",
			want:     ResultCorrect,
		},
		{
			name:     "single substitution is a typo",
			user:     "apfal",
			expected: "Apfel",
			want:     ResultTypo,
		},
		{
			name:     "single missing letter is a typo",
			user:     "apfl",
			expected: "Apfel",
			want:     ResultTypo,
		},
		{
			name:     "single extra letter is a typo",
			user:     "appfel",
			expected: "Apfel",
			want:     ResultTypo,
		},
		{
			name:     "distance two is wrong, never typo",
			user:     "apfalx",
			expected: "Apfel",
			want:     ResultWrong,
		},
		{
			name:     "typo against accepted alternative",
			user:     "the dgo",
			expected: "der Hund",
			accepted: []string{"the dog"},
			want:     ResultTypo,
		},
		{
			name:     "wrong when far from everything",
			user:     "banana",
			expected: "Apfel",
			accepted: []string{"apple"},
			want:     ResultWrong,
		},
		{
			name:     "multi-byte rune counts as one edit",
			user:     "etre",
			expected: "être",
			want:     ResultTypo,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Classify(tc.user, tc.expected, tc.accepted))
		})
	}
}

func TestResultIsCorrect(t *testing.T) {
	t.Parallel()

	assert.True(t, ResultCorrect.IsCorrect())
	assert.True(t, ResultTypo.IsCorrect())
	assert.False(t, ResultWrong.IsCorrect())
}
