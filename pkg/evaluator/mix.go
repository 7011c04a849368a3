package evaluator

import (
	"sort"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// DefaultSwitchStrategies are the consecutive-loss thresholds compared by
// CompareCombinations
var DefaultSwitchStrategies = []int{1, 2, 3, 4, 5, 6}

// MixModels backtests a model-switching strategy. Both inputs are newest
// first, as served by the guess-list API, and so is the result.
//
// Walking from the oldest default record, the oldest one is always kept.
// After that, once the last switchAfter chosen records are consecutive
// current-period losses of the default model, the assist model's record
// for the next period is used instead when it exists.
func MixModels(defaults, assists []models.PredictionRecord, switchAfter int, policy models.MatchPolicy) []models.PredictionRecord {
	if len(defaults) == 0 {
		return nil
	}
	if switchAfter < 1 {
		switchAfter = 1
	}

	assistByPeriod := make(map[string]int, len(assists))
	for i := range assists {
		if _, ok := assistByPeriod[assists[i].Period]; !ok {
			assistByPeriod[assists[i].Period] = i
		}
	}

	// chosen is oldest first while building
	chosen := make([]models.PredictionRecord, 0, len(defaults))
	chosen = append(chosen, defaults[len(defaults)-1])

	for i := len(defaults) - 2; i >= 0; i-- {
		current := defaults[i]

		if consecutiveLosses(chosen, current.AiType.Name, switchAfter, policy) >= switchAfter {
			if idx, ok := assistByPeriod[nextPeriod(&current)]; ok {
				chosen = append(chosen, assists[idx])
				continue
			}
		}
		chosen = append(chosen, current)
	}

	for l, r := 0, len(chosen)-1; l < r; l, r = l+1, r-1 {
		chosen[l], chosen[r] = chosen[r], chosen[l]
	}
	return chosen
}

// consecutiveLosses counts, from the most recent chosen record backwards and
// at most limit deep, current-period losses made by model
func consecutiveLosses(chosen []models.PredictionRecord, model string, limit int, policy models.MatchPolicy) int {
	count := 0
	for j := 0; j < limit && j < len(chosen); j++ {
		item := &chosen[len(chosen)-1-j]
		lost := !MatchesCurrentPeriod(FormatPrediction(item.PredictedDigits), item.DrawOutcomes, item.Period, policy)
		if !lost || item.AiType.Name != model {
			break
		}
		count++
	}
	return count
}

// nextPeriod is the period the assist model would be looked up for
func nextPeriod(record *models.PredictionRecord) string {
	if len(record.DrawOutcomes) > 0 {
		return record.DrawOutcomes[0].PeriodID
	}
	return record.Period
}

// CompareCombination scores one default/assist pairing under a switch
// strategy. Pairings missing data for either model score zero.
func CompareCombination(defaults, assists []models.PredictionRecord, defaultModel, assistModel string, switchAfter int, params models.EvaluationParams) models.ComparisonResult {
	result := models.ComparisonResult{
		DefaultModel:   defaultModel,
		AssistModel:    assistModel,
		SwitchStrategy: switchAfter,
		BalanceSeries:  []models.BalancePoint{},
	}
	if len(defaults) == 0 || len(assists) == 0 {
		return result
	}

	opts := OptionsFrom(params)
	mixed := MixModels(defaults, assists, switchAfter, params.Policy)

	result.WinRates = ComputeWinRates(mixed, params.Policy)
	result.BalanceSeries = BalanceSeries(mixed, params.Stake, params.Window, opts)
	result.TotalBalance = TotalBalance(mixed, params.Stake, params.Window, opts)
	return result
}

// Pairings lists every ordered pair of distinct models
func Pairings(modelNames []string) [][2]string {
	pairs := make([][2]string, 0, len(modelNames)*len(modelNames))
	for _, d := range modelNames {
		for _, a := range modelNames {
			if d != a {
				pairs = append(pairs, [2]string{d, a})
			}
		}
	}
	return pairs
}

// CompareCombinations scores every pairing of modelNames under every
// strategy, best current-period win rate first
func CompareCombinations(data map[string][]models.PredictionRecord, modelNames []string, strategies []int, params models.EvaluationParams) []models.ComparisonResult {
	if len(strategies) == 0 {
		strategies = DefaultSwitchStrategies
	}

	pairs := Pairings(modelNames)
	results := make([]models.ComparisonResult, 0, len(pairs)*len(strategies))
	for _, pair := range pairs {
		for _, strategy := range strategies {
			results = append(results, CompareCombination(data[pair[0]], data[pair[1]], pair[0], pair[1], strategy, params))
		}
	}

	SortComparisons(results)
	return results
}

// SortComparisons orders results by current-period win rate, descending.
// Ties keep their input order.
func SortComparisons(results []models.ComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WinRates.Current.Rate > results[j].WinRates.Current.Rate
	})
}
