package evaluator

import (
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// MatchesCurrentPeriod checks the prediction against the draw whose period
// equals targetPeriod. A period that has not been drawn yet is never a win.
func MatchesCurrentPeriod(prediction string, draws []models.DrawOutcome, targetPeriod string, policy models.MatchPolicy) bool {
	if len(draws) == 0 || !HasPrediction(prediction) {
		return false
	}

	for _, draw := range draws {
		if draw.PeriodID == targetPeriod {
			return Matches(prediction, draw, policy)
		}
	}
	return false
}

// MatchesWithinTwoPeriods reports whether any of the first two draws matches
func MatchesWithinTwoPeriods(prediction string, draws []models.DrawOutcome, policy models.MatchPolicy) bool {
	if len(draws) > 2 {
		draws = draws[:2]
	}
	return matchesAny(prediction, draws, policy)
}

// MatchesWithinThreePeriods reports whether any of the draws matches. The
// producer caps the lookahead at three draws.
func MatchesWithinThreePeriods(prediction string, draws []models.DrawOutcome, policy models.MatchPolicy) bool {
	return matchesAny(prediction, draws, policy)
}

// MatchesWindow dispatches to the check of the given window. Unknown
// windows never match.
func MatchesWindow(prediction, period string, draws []models.DrawOutcome, window models.Window, policy models.MatchPolicy) bool {
	switch window {
	case models.WindowCurrent:
		return MatchesCurrentPeriod(prediction, draws, period, policy)
	case models.WindowTwo:
		return MatchesWithinTwoPeriods(prediction, draws, policy)
	case models.WindowThree:
		return MatchesWithinThreePeriods(prediction, draws, policy)
	default:
		return false
	}
}

// MatchedPeriod returns the 1-based position of the first matching draw,
// or 0 when none matches
func MatchedPeriod(prediction string, draws []models.DrawOutcome, policy models.MatchPolicy) int {
	if !HasPrediction(prediction) {
		return 0
	}
	for i, draw := range draws {
		if Matches(prediction, draw, policy) {
			return i + 1
		}
	}
	return 0
}

func matchesAny(prediction string, draws []models.DrawOutcome, policy models.MatchPolicy) bool {
	if len(draws) == 0 || !HasPrediction(prediction) {
		return false
	}
	for _, draw := range draws {
		if Matches(prediction, draw, policy) {
			return true
		}
	}
	return false
}
