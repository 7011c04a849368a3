package evaluator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

const (
	// NoResult is the formatted prediction of a record without predicted digits
	NoResult = "no result"

	// AwaitingOutcome is the trace of a simulation that lacks draws
	AwaitingOutcome = "awaiting outcome"

	// TraceSeparator joins the per-period segments of a simulation trace
	TraceSeparator = " → "
)

// Options carries the two process-wide flags every evaluation depends on.
// Callers resolve them once and pass them down.
type Options struct {
	Policy           models.MatchPolicy
	ContinueAfterWin bool
}

// OptionsFrom extracts the match options from evaluation parameters
func OptionsFrom(params models.EvaluationParams) Options {
	return Options{Policy: params.Policy, ContinueAfterWin: params.ContinueAfterWin}
}

// FormatPrediction concatenates the predicted digits, or returns NoResult
func FormatPrediction(result *models.GuessResult) string {
	if result == nil {
		return NoResult
	}
	return result.String()
}

// HasPrediction reports whether prediction is usable for matching
func HasPrediction(prediction string) bool {
	return prediction != "" && prediction != NoResult
}

// floor2 rounds d down to whole cents
func floor2(d decimal.Decimal) decimal.Decimal {
	return d.RoundFloor(2)
}

// formatTenths renders d with exactly one decimal
func formatTenths(d decimal.Decimal) string {
	return d.StringFixed(1)
}

func joinTrace(segments []string) string {
	return strings.Join(segments, TraceSeparator)
}
