package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchPolicy selects the rule deciding whether a prediction matches a draw
type MatchPolicy string

const (
	// FirstDigitOnly matches when the first predicted digit appears in the draw
	FirstDigitOnly MatchPolicy = "option1"
	// FirstDigitPlusAny additionally requires one of the remaining four digits
	// to appear among the draw digits left after consuming the first match
	FirstDigitPlusAny MatchPolicy = "option2"

	DefaultMatchPolicy = FirstDigitPlusAny
)

// Valid reports whether p is a known policy
func (p MatchPolicy) Valid() bool {
	return p == FirstDigitOnly || p == FirstDigitPlusAny
}

// Window is the temporal window a prediction is judged over
type Window string

const (
	WindowCurrent Window = "current" // Only the draw of the predicted period
	WindowTwo     Window = "two"     // Any of the first two draws
	WindowThree   Window = "three"   // Any of the first three draws

	DefaultWindow = WindowThree
)

// Periods returns how many draws the window needs, 0 for an unknown window
func (w Window) Periods() int {
	switch w {
	case WindowCurrent:
		return 1
	case WindowTwo:
		return 2
	case WindowThree:
		return 3
	default:
		return 0
	}
}

// Valid reports whether w is a known window
func (w Window) Valid() bool {
	return w.Periods() > 0
}

// MaxStake is the upper bound of a per-period stake multiplier
const MaxStake = 100.0

// StakeConfig holds per-period stake multipliers for the balance simulation
type StakeConfig struct {
	First  float64 `json:"x"`
	Second float64 `json:"y"`
	Third  float64 `json:"z"`
}

// DefaultStakeConfig is the multiplier set used when nothing is configured
func DefaultStakeConfig() StakeConfig {
	return StakeConfig{First: 1, Second: 2, Third: 4}
}

// ForPeriod returns the multiplier of period index 0, 1 or 2
func (s StakeConfig) ForPeriod(i int) float64 {
	switch i {
	case 0:
		return s.First
	case 1:
		return s.Second
	case 2:
		return s.Third
	default:
		return 0
	}
}

// Clamp bounds every multiplier to [0, MaxStake]
func (s StakeConfig) Clamp() StakeConfig {
	return StakeConfig{
		First:  clampStake(s.First),
		Second: clampStake(s.Second),
		Third:  clampStake(s.Third),
	}
}

func clampStake(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxStake {
		return MaxStake
	}
	return v
}

// EvaluationParams is the configuration an evaluation runs with. It is
// resolved once per request and passed down explicitly.
type EvaluationParams struct {
	Policy           MatchPolicy `json:"match_policy"`
	ContinueAfterWin bool        `json:"continue_after_win"`
	Stake            StakeConfig `json:"stake"`
	Window           Window      `json:"window"`
}

// DefaultEvaluationParams returns the dashboard defaults
func DefaultEvaluationParams() EvaluationParams {
	return EvaluationParams{
		Policy:           DefaultMatchPolicy,
		ContinueAfterWin: false,
		Stake:            DefaultStakeConfig(),
		Window:           DefaultWindow,
	}
}

// WinRate is the share of winning predictions among those with enough draws
type WinRate struct {
	Rate  float64 `json:"rate"` // Percentage, two decimals
	Total int     `json:"total"`
	Wins  int     `json:"wins"`
}

// WinRates groups the win rates of the three windows
type WinRates struct {
	Current WinRate `json:"current"`
	Two     WinRate `json:"two"`
	Three   WinRate `json:"three"`
}

// ForWindow returns the win rate of the given window
func (w WinRates) ForWindow(window Window) WinRate {
	switch window {
	case WindowCurrent:
		return w.Current
	case WindowTwo:
		return w.Two
	default:
		return w.Three
	}
}

// BalancePoint is one step of a cumulative balance series
type BalancePoint struct {
	GuessTime int64           `json:"guess_time"`
	Period    string          `json:"period"`
	Balance   decimal.Decimal `json:"balance"`
}

// WinRatePoint is one step of a cumulative win-rate series
type WinRatePoint struct {
	GuessTime int64   `json:"guess_time"`
	Period    string  `json:"period"`
	WinRate   float64 `json:"win_rate"`
}

// WinLosePoint marks a record as won (+1) or lost (-1)
type WinLosePoint struct {
	GuessTime int64  `json:"guess_time"`
	Period    string `json:"period"`
	Value     int    `json:"value"`
}

// EvaluatedRecord is a prediction together with everything derived from it
type EvaluatedRecord struct {
	ID               string          `json:"id"`
	Period           string          `json:"period"`
	GuessTime        int64           `json:"guess_time"`
	GuessType        string          `json:"guess_type"`
	Model            string          `json:"model"`
	Prediction       string          `json:"prediction"`
	Draws            []DrawOutcome   `json:"draws"`
	CurrentPeriodWin bool            `json:"current_period_win"`
	TwoPeriodWin     bool            `json:"two_period_win"`
	ThreePeriodWin   bool            `json:"three_period_win"`
	MatchedPeriod    int             `json:"matched_period"` // 1-based, 0 when none matched
	Profit           decimal.Decimal `json:"profit"`
	ProfitTrace      string          `json:"profit_trace"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceTrace     string          `json:"balance_trace"`
}

// EvaluationReport is the result of evaluating a batch of predictions
type EvaluationReport struct {
	ID            uuid.UUID         `json:"id"`
	GuessType     string            `json:"guess_type"`
	Params        EvaluationParams  `json:"params"`
	Records       []EvaluatedRecord `json:"records"`
	WinRates      WinRates          `json:"win_rates"`
	TotalProfit   int               `json:"total_profit"`
	TotalBalance  int               `json:"total_balance"`
	BalanceSeries []BalancePoint    `json:"balance_series"`
	WinRateSeries []WinRatePoint    `json:"win_rate_series"`
	WinLoseSeries []WinLosePoint    `json:"win_lose_series"`
	OutcomeCodes  string            `json:"outcome_codes"` // Projection codes, oldest first
	EvaluatedAt   time.Time         `json:"evaluated_at"`
}

// ComparisonResult scores one default/assist model pairing
type ComparisonResult struct {
	DefaultModel   string         `json:"default_model"`
	AssistModel    string         `json:"assist_model"`
	SwitchStrategy int            `json:"switch_strategy"`
	WinRates       WinRates       `json:"win_rates"`
	TotalBalance   int            `json:"total_balance"`
	BalanceSeries  []BalancePoint `json:"balance_series"`
}

// Projection is the balance implied by a tally of period outcomes
type Projection struct {
	WonFirst  int             `json:"won_first"`  // a: won in the first period
	WonSecond int             `json:"won_second"` // b: won in the second period
	WonThird  int             `json:"won_third"`  // c: won in the third period
	Lost      int             `json:"lost"`       // d: lost all three periods
	Balance   decimal.Decimal `json:"balance"`
}

// KafkaPredictionMessage is a batch of resolved predictions published on Kafka
type KafkaPredictionMessage struct {
	BatchID   string             `json:"batch_id"`
	GuessType string             `json:"guess_type"`
	Records   []PredictionRecord `json:"records"`
	Timestamp time.Time          `json:"timestamp"`
}
