package evaluator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// ProjectBalance computes the balance implied by a string of outcome codes:
// '1', '2', '3' for a win in that period and '0' for three losses. Any other
// rune is ignored, so pasted text with separators works as is.
//
//	a*(62.7x) + b*(62.7y - 36.3x) + c*(62.7z - 36.3(x+y)) - d*36.3(x+y+z)
func ProjectBalance(outcomes string, stake models.StakeConfig) models.Projection {
	var p models.Projection
	for _, r := range outcomes {
		switch r {
		case '1':
			p.WonFirst++
		case '2':
			p.WonSecond++
		case '3':
			p.WonThird++
		case '0':
			p.Lost++
		}
	}

	x := decimal.NewFromFloat(stake.First)
	y := decimal.NewFromFloat(stake.Second)
	z := decimal.NewFromFloat(stake.Third)
	win, loss := WinPayoutCoefficient, LossPenaltyCoefficient

	first := win.Mul(x)
	second := win.Mul(y).Sub(loss.Mul(x))
	third := win.Mul(z).Sub(loss.Mul(x.Add(y)))
	lost := loss.Mul(x.Add(y).Add(z))

	p.Balance = decimal.NewFromInt(int64(p.WonFirst)).Mul(first).
		Add(decimal.NewFromInt(int64(p.WonSecond)).Mul(second)).
		Add(decimal.NewFromInt(int64(p.WonThird)).Mul(third)).
		Sub(decimal.NewFromInt(int64(p.Lost)).Mul(lost))
	return p
}

// OutcomeCodes encodes resolved records as projection codes, oldest first.
// Records with fewer than three draws or without a prediction are skipped.
func OutcomeCodes(records []models.PredictionRecord, policy models.MatchPolicy) string {
	var b strings.Builder
	for _, record := range sortedByGuessTime(records) {
		prediction := FormatPrediction(record.PredictedDigits)
		if !HasPrediction(prediction) || len(record.DrawOutcomes) < StagedBetPeriods {
			continue
		}
		code := MatchedPeriod(prediction, record.DrawOutcomes[:StagedBetPeriods], policy)
		b.WriteByte(byte('0' + code))
	}
	return b.String()
}
