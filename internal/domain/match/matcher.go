// Package match implements answer normalization and typo-tolerant
// grading of free-text answers against a card's expected answer and its
// accepted alternatives. All functions are pure.
package match

import "strings"

// Result classifies a graded answer.
type Result string

// Possible grading results. A typo is a near-miss at edit distance
// exactly 1 from the expected answer or any accepted alternative.
const (
	ResultCorrect Result = "correct"
	ResultTypo    Result = "typo"
	ResultWrong   Result = "wrong"
)

// IsCorrect reports whether the result counts as a successful review.
// Typos are graded softly: they advance scheduling like a correct
// answer but are surfaced to the user as a near-miss.
func (r Result) IsCorrect() bool {
	return r == ResultCorrect || r == ResultTypo
}

// Normalize lower-cases the string, trims surrounding whitespace,
// collapses internal whitespace runs to a single space, and strips any
// run of trailing '.', ',', '!' and '?' characters.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".,!?")
	// Stripping trailing punctuation can expose trailing whitespace
	// ("ok ." -> "ok "), so trim once more.
	return strings.TrimRight(s, " ")
}

// Matches reports whether the user answer is an exact match (after
// normalization) of the expected answer or any accepted alternative.
func Matches(user, expected string, accepted []string) bool {
	got := Normalize(user)
	if got == Normalize(expected) {
		return true
	}

	for _, alt := range accepted {
		if got == Normalize(alt) {
			return true
		}
	}

	return false
}

// Classify grades a user answer against the expected answer and the
// accepted alternatives:
//
//  1. An exact normalized match is correct.
//  2. Otherwise, edit distance 1 from the normalized expected answer is
//     a typo.
//  3. Otherwise, edit distance 1 from any normalized accepted
//     alternative is a typo.
//  4. Everything else is wrong.
func Classify(user, expected string, accepted []string) Result {
	if Matches(user, expected, accepted) {
		return ResultCorrect
	}

	got := Normalize(user)
	if Levenshtein(got, Normalize(expected)) == 1 {
		return ResultTypo
	}

	for _, alt := range accepted {
		if Levenshtein(got, Normalize(alt)) == 1 {
			return ResultTypo
		}
	}

	return ResultWrong
}
