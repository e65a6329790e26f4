package session

import (
	"sort"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// mixModes is the fixed order of modes participating in mixed-session
// apportionment. The order also resolves remainder ties, so translate
// wins them.
var mixModes = []domain.SessionMode{
	domain.SessionModeTranslate,
	domain.SessionModeAbcd,
	domain.SessionModeSentence,
}

// apportionMix splits total tasks over the configured mode weights
// using largest-remainder apportionment. The returned slice has one
// entry per task, in mode blocks following mixModes order. Weights that
// are all zero fall back to translate only.
func apportionMix(total int, settings *domain.StudySettings) []domain.SessionMode {
	weights := []int{settings.MixTranslate, settings.MixAbcd, settings.MixSentence}

	sum := 0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		weights = []int{1, 0, 0}
		sum = 1
	}

	type share struct {
		index     int
		count     int
		remainder int
	}

	shares := make([]share, len(weights))
	assigned := 0
	for i, w := range weights {
		exact := total * w
		shares[i] = share{
			index:     i,
			count:     exact / sum,
			remainder: exact % sum,
		}
		assigned += exact / sum
	}

	// Hand leftover slots to the largest remainders; equal remainders
	// resolve by mode order, so translate wins ties.
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].remainder > shares[b].remainder
	})
	for i := 0; assigned < total; i++ {
		shares[i%len(shares)].count++
		assigned++
	}

	sort.Slice(shares, func(a, b int) bool {
		return shares[a].index < shares[b].index
	})

	modes := make([]domain.SessionMode, 0, total)
	for _, s := range shares {
		for i := 0; i < s.count; i++ {
			modes = append(modes, mixModes[s.index])
		}
	}

	return modes
}
