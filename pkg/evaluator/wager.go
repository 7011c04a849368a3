package evaluator

import (
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// StagedBetPeriods is the number of draws a staged bet needs
const StagedBetPeriods = 3

var (
	// StagedBetOdds is the payout multiplier of a winning staged bet
	StagedBetOdds = decimal.RequireFromString("1.315")

	// BaseStake is the opening stake; each loss adds another BaseStake
	BaseStake = decimal.NewFromInt(10)
)

// WagerResult is the outcome of a staged bet
type WagerResult struct {
	Profit   decimal.Decimal
	Trace    string
	Awaiting bool // Not enough draws yet
}

func awaitingWager() WagerResult {
	return WagerResult{Profit: decimal.Zero, Trace: AwaitingOutcome, Awaiting: true}
}

// SimulateStagedBet plays a Martingale-style sequence over three periods:
// stakes 10, 20, 30 after successive losses, each win paying
// stake*1.315 floored to the cent. The sequence stops at the first win
// unless opts.ContinueAfterWin is set.
func SimulateStagedBet(prediction string, draws []models.DrawOutcome, opts Options) WagerResult {
	if !HasPrediction(prediction) || len(draws) != StagedBetPeriods {
		return awaitingWager()
	}

	var (
		profit   = decimal.Zero
		losses   int64
		won      bool
		segments = make([]string, 0, StagedBetPeriods)
		stake    = BaseStake
	)

	for i := 0; i < StagedBetPeriods; i++ {
		if won && !opts.ContinueAfterWin {
			break
		}

		if Matches(prediction, draws[i], opts.Policy) {
			amount := floor2(stake.Mul(StagedBetOdds))
			profit = profit.Add(amount)
			won = true
			segments = append(segments, "+"+amount.String())
			continue
		}

		profit = profit.Sub(stake)
		segments = append(segments, "-"+stake.String())
		losses++
		stake = BaseStake.Add(BaseStake.Mul(decimal.NewFromInt(losses)))
	}

	return WagerResult{
		Profit: floor2(profit),
		Trace:  joinTrace(segments),
	}
}

// TotalProfit sums the staged-bet profit of every record, rounded down
func TotalProfit(records []models.PredictionRecord, opts Options) int {
	sum := decimal.Zero
	for i := range records {
		result := SimulateStagedBet(FormatPrediction(records[i].PredictedDigits), records[i].DrawOutcomes, opts)
		sum = sum.Add(result.Profit)
	}
	return int(sum.Floor().IntPart())
}
