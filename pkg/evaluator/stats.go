package evaluator

import (
	"math"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// ComputeWinRates scores records under all three windows. A record counts
// toward a window only once it has a prediction and enough draws: one for
// the current period, two and three for the wider windows.
func ComputeWinRates(records []models.PredictionRecord, policy models.MatchPolicy) models.WinRates {
	return models.WinRates{
		Current: windowWinRate(records, models.WindowCurrent, policy),
		Two:     windowWinRate(records, models.WindowTwo, policy),
		Three:   windowWinRate(records, models.WindowThree, policy),
	}
}

// WinRateSeries returns the cumulative win rate after each record, ordered
// by guess time
func WinRateSeries(records []models.PredictionRecord, window models.Window, policy models.MatchPolicy) []models.WinRatePoint {
	sorted := sortedByGuessTime(records)
	series := make([]models.WinRatePoint, 0, len(sorted))

	var total, wins int
	for i := range sorted {
		if countsToward(&sorted[i], window) {
			total++
			if recordWins(&sorted[i], window, policy) {
				wins++
			}
		}
		series = append(series, models.WinRatePoint{
			GuessTime: sorted[i].GuessTime,
			Period:    sorted[i].Period,
			WinRate:   percentage(wins, total),
		})
	}
	return series
}

// WinLoseSeries marks every record, ordered by guess time, as +1 or -1
func WinLoseSeries(records []models.PredictionRecord, window models.Window, policy models.MatchPolicy) []models.WinLosePoint {
	sorted := sortedByGuessTime(records)
	series := make([]models.WinLosePoint, 0, len(sorted))
	for i := range sorted {
		value := -1
		if recordWins(&sorted[i], window, policy) {
			value = 1
		}
		series = append(series, models.WinLosePoint{
			GuessTime: sorted[i].GuessTime,
			Period:    sorted[i].Period,
			Value:     value,
		})
	}
	return series
}

func windowWinRate(records []models.PredictionRecord, window models.Window, policy models.MatchPolicy) models.WinRate {
	var rate models.WinRate
	for i := range records {
		if !countsToward(&records[i], window) {
			continue
		}
		rate.Total++
		if recordWins(&records[i], window, policy) {
			rate.Wins++
		}
	}
	rate.Rate = percentage(rate.Wins, rate.Total)
	return rate
}

func countsToward(record *models.PredictionRecord, window models.Window) bool {
	return record.PredictedDigits != nil && len(record.DrawOutcomes) >= window.Periods() && window.Valid()
}

func recordWins(record *models.PredictionRecord, window models.Window, policy models.MatchPolicy) bool {
	return MatchesWindow(FormatPrediction(record.PredictedDigits), record.Period, lookahead(record.DrawOutcomes), window, policy)
}

// percentage returns wins/total as a percentage rounded to two decimals
func percentage(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*10000) / 100
}
