package evaluator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

var (
	// ErrInvalidPolicy is returned for a match policy other than option1/option2
	ErrInvalidPolicy = errors.New("invalid match policy")

	// ErrInvalidWindow is returned for a window other than current/two/three
	ErrInvalidWindow = errors.New("invalid window")

	// ErrInvalidStrategy is returned for a switch threshold below one
	ErrInvalidStrategy = errors.New("invalid switch strategy")
)

// Evaluator scores prediction batches and simulates the wagers placed on them
type Evaluator struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewEvaluator creates a new prediction evaluator
func NewEvaluator(logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.With().Str("component", "evaluator").Logger(),
		now:    time.Now,
	}
}

// ValidateParams checks the policy and window and clamps the stake
func ValidateParams(params models.EvaluationParams) (models.EvaluationParams, error) {
	if !params.Policy.Valid() {
		return params, fmt.Errorf("%w: %q", ErrInvalidPolicy, params.Policy)
	}
	if !params.Window.Valid() {
		return params, fmt.Errorf("%w: %q", ErrInvalidWindow, params.Window)
	}
	params.Stake = params.Stake.Clamp()
	return params, nil
}

// EvaluateRecord derives every per-record figure for record
func EvaluateRecord(record *models.PredictionRecord, params models.EvaluationParams) models.EvaluatedRecord {
	opts := OptionsFrom(params)
	prediction := FormatPrediction(record.PredictedDigits)

	wager := SimulateStagedBet(prediction, record.DrawOutcomes, opts)
	balance := SimulateBalance(prediction, record.Period, record.DrawOutcomes, params.Stake, params.Window, opts)

	draws := lookahead(record.DrawOutcomes)

	return models.EvaluatedRecord{
		ID:               record.ID,
		Period:           record.Period,
		GuessTime:        record.GuessTime,
		GuessType:        record.GuessType,
		Model:            record.AiType.Name,
		Prediction:       prediction,
		Draws:            record.DrawOutcomes,
		CurrentPeriodWin: MatchesCurrentPeriod(prediction, record.DrawOutcomes, record.Period, params.Policy),
		TwoPeriodWin:     MatchesWithinTwoPeriods(prediction, draws, params.Policy),
		ThreePeriodWin:   MatchesWithinThreePeriods(prediction, draws, params.Policy),
		MatchedPeriod:    MatchedPeriod(prediction, draws, params.Policy),
		Profit:           wager.Profit,
		ProfitTrace:      wager.Trace,
		Balance:          balance.Balance,
		BalanceTrace:     balance.Trace,
	}
}

// lookahead caps draws at the three periods a prediction is judged over
func lookahead(draws []models.DrawOutcome) []models.DrawOutcome {
	if len(draws) > StagedBetPeriods {
		return draws[:StagedBetPeriods]
	}
	return draws
}

// EvaluateBatch evaluates records of one guess type into a report
func (e *Evaluator) EvaluateBatch(guessType string, records []models.PredictionRecord, params models.EvaluationParams) (*models.EvaluationReport, error) {
	params, err := ValidateParams(params)
	if err != nil {
		return nil, err
	}

	opts := OptionsFrom(params)
	evaluated := make([]models.EvaluatedRecord, 0, len(records))
	for i := range records {
		evaluated = append(evaluated, EvaluateRecord(&records[i], params))
	}

	report := &models.EvaluationReport{
		ID:            uuid.New(),
		GuessType:     guessType,
		Params:        params,
		Records:       evaluated,
		WinRates:      ComputeWinRates(records, params.Policy),
		TotalProfit:   TotalProfit(records, opts),
		TotalBalance:  TotalBalance(records, params.Stake, params.Window, opts),
		BalanceSeries: BalanceSeries(records, params.Stake, params.Window, opts),
		WinRateSeries: WinRateSeries(records, params.Window, params.Policy),
		WinLoseSeries: WinLoseSeries(records, params.Window, params.Policy),
		OutcomeCodes:  OutcomeCodes(records, params.Policy),
		EvaluatedAt:   e.now(),
	}

	e.logger.Debug().
		Str("guess_type", guessType).
		Int("records", len(records)).
		Float64("win_rate", report.WinRates.ForWindow(params.Window).Rate).
		Int("total_profit", report.TotalProfit).
		Int("total_balance", report.TotalBalance).
		Msg("evaluated prediction batch")

	return report, nil
}

// Mix backtests switching from the default model to the assist model after
// switchAfter consecutive losses
func (e *Evaluator) Mix(defaults, assists []models.PredictionRecord, switchAfter int, params models.EvaluationParams) ([]models.PredictionRecord, error) {
	params, err := ValidateParams(params)
	if err != nil {
		return nil, err
	}
	if err := validateStrategy(switchAfter); err != nil {
		return nil, err
	}

	mixed := MixModels(defaults, assists, switchAfter, params.Policy)
	e.logger.Debug().
		Int("defaults", len(defaults)).
		Int("assists", len(assists)).
		Int("switch_after", switchAfter).
		Msg("mixed model records")
	return mixed, nil
}

// Compare ranks every default/assist pairing of the models in data
func (e *Evaluator) Compare(data map[string][]models.PredictionRecord, modelNames []string, strategies []int, params models.EvaluationParams) ([]models.ComparisonResult, error) {
	params, err := ValidateParams(params)
	if err != nil {
		return nil, err
	}
	for _, switchAfter := range strategies {
		if err := validateStrategy(switchAfter); err != nil {
			return nil, err
		}
	}

	results := CompareCombinations(data, modelNames, strategies, params)
	if len(results) > 0 {
		best := results[0]
		e.logger.Info().
			Str("default_model", best.DefaultModel).
			Str("assist_model", best.AssistModel).
			Int("switch_strategy", best.SwitchStrategy).
			Float64("win_rate", best.WinRates.Current.Rate).
			Int("combinations", len(results)).
			Msg("compared model combinations")
	}
	return results, nil
}

func validateStrategy(switchAfter int) error {
	if switchAfter < 1 {
		return fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidStrategy, switchAfter)
	}
	return nil
}

// Project returns the balance implied by outcome codes under stake
func (e *Evaluator) Project(outcomes string, stake models.StakeConfig) models.Projection {
	return ProjectBalance(outcomes, stake.Clamp())
}
