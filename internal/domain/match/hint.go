package match

import "strings"

// Hint produces a progressive masked hint for an answer: each word is
// reduced to its first character followed by one underscore per
// remaining character ("cat" -> "c _ _"). Per-word hints are joined
// with two spaces so word boundaries stay visible. Answers (and words)
// of length <= 1 are returned unchanged.
func Hint(answer string) string {
	trimmed := strings.TrimSpace(answer)
	if len([]rune(trimmed)) <= 1 {
		return trimmed
	}

	words := strings.Fields(trimmed)
	hints := make([]string, 0, len(words))

	for _, word := range words {
		runes := []rune(word)
		if len(runes) <= 1 {
			hints = append(hints, word)
			continue
		}

		parts := make([]string, len(runes))
		parts[0] = string(runes[0])
		for i := 1; i < len(runes); i++ {
			parts[i] = "_"
		}
		hints = append(hints, strings.Join(parts, " "))
	}

	return strings.Join(hints, "  ")
}
