package evaluator

import (
	"strings"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// Matches decides whether prediction matches a single draw.
//
// The draw digits are treated as a multiset. The first predicted digit must
// be present. Under FirstDigitPlusAny one occurrence of it is consumed and
// one of the remaining predicted digits must be found in what is left, so a
// drawn digit never satisfies both conditions.
func Matches(prediction string, draw models.DrawOutcome, policy models.MatchPolicy) bool {
	if !HasPrediction(prediction) {
		return false
	}

	first := prediction[0]
	idx := strings.IndexByte(draw.Digits, first)
	if idx < 0 {
		return false
	}

	if policy == models.FirstDigitOnly {
		return true
	}

	remaining := draw.Digits[:idx] + draw.Digits[idx+1:]
	for i := 1; i < len(prediction); i++ {
		if strings.IndexByte(remaining, prediction[i]) >= 0 {
			return true
		}
	}
	return false
}
