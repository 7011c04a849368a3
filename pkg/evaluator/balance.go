package evaluator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

var (
	// WinPayoutCoefficient is paid per unit of stake on a winning period
	WinPayoutCoefficient = decimal.RequireFromString("62.7")

	// LossPenaltyCoefficient is lost per unit of stake on a losing period
	LossPenaltyCoefficient = decimal.RequireFromString("36.3")
)

// BalanceResult is the outcome of a per-period stake simulation
type BalanceResult struct {
	Balance  decimal.Decimal
	Trace    string
	Awaiting bool
}

func awaitingBalance() BalanceResult {
	return BalanceResult{Balance: decimal.Zero, Trace: AwaitingOutcome, Awaiting: true}
}

// SimulateBalance stakes stake.ForPeriod(i) on each period the window
// covers. Period i is judged with the window check over draws[0..i]; the
// current-period window judges draws[i] against the record's own period.
// A win pays 62.7 per unit and a loss costs 36.3 per unit.
func SimulateBalance(prediction, period string, draws []models.DrawOutcome, stake models.StakeConfig, window models.Window, opts Options) BalanceResult {
	required := window.Periods()
	if required == 0 || !HasPrediction(prediction) || len(draws) < required {
		return awaitingBalance()
	}

	var (
		balance  = decimal.Zero
		won      bool
		segments = make([]string, 0, required)
	)

	for i := 0; i < required; i++ {
		if won && !opts.ContinueAfterWin {
			break
		}

		var win bool
		switch window {
		case models.WindowCurrent:
			win = MatchesCurrentPeriod(prediction, draws[i:i+1], period, opts.Policy)
		case models.WindowTwo:
			win = MatchesWithinTwoPeriods(prediction, draws[:i+1], opts.Policy)
		default:
			win = MatchesWithinThreePeriods(prediction, draws[:i+1], opts.Policy)
		}

		multiplier := decimal.NewFromFloat(stake.ForPeriod(i))
		if win {
			amount := WinPayoutCoefficient.Mul(multiplier)
			balance = balance.Add(amount)
			won = true
			segments = append(segments, "+"+formatTenths(amount))
		} else {
			penalty := LossPenaltyCoefficient.Mul(multiplier)
			balance = balance.Sub(penalty)
			segments = append(segments, "-"+formatTenths(penalty))
		}
	}

	return BalanceResult{
		Balance: floor2(balance),
		Trace:   joinTrace(segments),
	}
}

// TotalBalance sums SimulateBalance over records, rounded down
func TotalBalance(records []models.PredictionRecord, stake models.StakeConfig, window models.Window, opts Options) int {
	sum := decimal.Zero
	for i := range records {
		sum = sum.Add(simulateRecordBalance(&records[i], stake, window, opts).Balance)
	}
	return int(sum.Floor().IntPart())
}

// BalanceSeries returns the running balance over records ordered by guess
// time, each point floored to two decimals
func BalanceSeries(records []models.PredictionRecord, stake models.StakeConfig, window models.Window, opts Options) []models.BalancePoint {
	sorted := sortedByGuessTime(records)
	series := make([]models.BalancePoint, 0, len(sorted))

	running := decimal.Zero
	for i := range sorted {
		running = running.Add(simulateRecordBalance(&sorted[i], stake, window, opts).Balance)
		series = append(series, models.BalancePoint{
			GuessTime: sorted[i].GuessTime,
			Period:    sorted[i].Period,
			Balance:   floor2(running),
		})
	}
	return series
}

func simulateRecordBalance(record *models.PredictionRecord, stake models.StakeConfig, window models.Window, opts Options) BalanceResult {
	return SimulateBalance(FormatPrediction(record.PredictedDigits), record.Period, record.DrawOutcomes, stake, window, opts)
}

// sortedByGuessTime returns a copy of records in ascending guess time
func sortedByGuessTime(records []models.PredictionRecord) []models.PredictionRecord {
	sorted := make([]models.PredictionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GuessTime < sorted[j].GuessTime
	})
	return sorted
}
