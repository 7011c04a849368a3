package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/cache"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/metrics"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/settings"
)

const (
	// MaxConcurrentFetches bounds parallel guess-list requests
	MaxConcurrentFetches = 4

	// MaxFetchLimit bounds the records fetched per model
	MaxFetchLimit = 2000
)

// ErrInvalidInput is returned for requests the service cannot act on
var ErrInvalidInput = errors.New("invalid input")

// Overrides replaces resolved settings for a single request. Nil fields
// keep the resolved value.
type Overrides struct {
	Policy           *models.MatchPolicy `json:"match_policy,omitempty"`
	ContinueAfterWin *bool               `json:"continue_after_win,omitempty"`
	Stake            *models.StakeConfig `json:"stake,omitempty"`
	Window           *models.Window      `json:"window,omitempty"`
}

// Apply returns params with the set overrides
func (o Overrides) Apply(params models.EvaluationParams) models.EvaluationParams {
	if o.Policy != nil {
		params.Policy = *o.Policy
	}
	if o.ContinueAfterWin != nil {
		params.ContinueAfterWin = *o.ContinueAfterWin
	}
	if o.Stake != nil {
		params.Stake = *o.Stake
	}
	if o.Window != nil {
		params.Window = *o.Window
	}
	return params
}

// MixResult is a mixed record list together with its evaluation
type MixResult struct {
	Records []models.PredictionRecord `json:"records"`
	Report  *models.EvaluationReport  `json:"report"`
}

// Options holds the service defaults
type Options struct {
	Defaults   models.EvaluationParams // Used when no setting is stored
	FetchLimit int                     // Records fetched per model
	Models     []string                // Models compared when none are requested
}

// EvaluationService orchestrates prediction evaluation with settings and caching
type EvaluationService struct {
	evaluator Evaluator
	cache     Cache
	fetcher   GuessFetcher
	store     settings.Store
	metrics   *metrics.EvaluationMetrics
	opts      Options
	logger    zerolog.Logger
}

// NewEvaluationService creates a new evaluation service. m may be nil.
func NewEvaluationService(
	evaluator Evaluator,
	cache Cache,
	fetcher GuessFetcher,
	store settings.Store,
	m *metrics.EvaluationMetrics,
	opts Options,
	logger zerolog.Logger,
) *EvaluationService {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 50
	}
	if opts.FetchLimit > MaxFetchLimit {
		opts.FetchLimit = MaxFetchLimit
	}
	if len(opts.Models) == 0 {
		opts.Models = models.AllGuessTypes()
	}

	return &EvaluationService{
		evaluator: evaluator,
		cache:     cache,
		fetcher:   fetcher,
		store:     store,
		metrics:   m,
		opts:      opts,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

// ResolveParams reads the stored settings. Store errors are logged and the
// defaults are used.
func (s *EvaluationService) ResolveParams(ctx context.Context) models.EvaluationParams {
	params, err := settings.Resolve(ctx, s.store, s.opts.Defaults)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve settings, using defaults")
		return s.opts.Defaults
	}
	return params
}

// EvaluateRecords evaluates records under the resolved settings and caches the report
func (s *EvaluationService) EvaluateRecords(ctx context.Context, source, guessType string, records []models.PredictionRecord, overrides Overrides) (*models.EvaluationReport, error) {
	params := overrides.Apply(s.ResolveParams(ctx))
	return s.evaluate(ctx, source, guessType, records, params)
}

func (s *EvaluationService) evaluate(ctx context.Context, source, guessType string, records []models.PredictionRecord, params models.EvaluationParams) (*models.EvaluationReport, error) {
	start := time.Now()
	report, err := s.evaluator.EvaluateBatch(guessType, records, params)
	s.metrics.RecordEvaluation(source, report, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	// Cache the report
	if err := s.cache.Set(ctx, report); err != nil {
		s.logger.Warn().
			Err(err).
			Str("guess_type", guessType).
			Msg("failed to cache evaluation report")
		// Don't fail the request on cache errors
	}

	s.logger.Info().
		Str("source", source).
		Str("guess_type", guessType).
		Int("records", len(records)).
		Float64("win_rate", report.WinRates.ForWindow(report.Params.Window).Rate).
		Int("total_balance", report.TotalBalance).
		Msg("evaluated and cached report")

	return report, nil
}

// GetReport returns the report of guessType with cache-first strategy. On a
// miss the latest records are fetched and evaluated.
func (s *EvaluationService) GetReport(ctx context.Context, guessType string, overrides Overrides) (*models.EvaluationReport, error) {
	if guessType == "" {
		return nil, fmt.Errorf("%w: guess type is required", ErrInvalidInput)
	}
	params := overrides.Apply(s.ResolveParams(ctx))

	// Try cache first
	cached, err := s.cache.Get(ctx, guessType, params)
	if err == nil && cached != nil {
		s.metrics.RecordCacheLookup("hit")
		s.logger.Debug().
			Str("guess_type", guessType).
			Msg("cache hit for evaluation report")
		return cached, nil
	}

	// Log cache errors (but don't fail on them)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		s.metrics.RecordCacheLookup("error")
		s.logger.Warn().
			Err(err).
			Str("guess_type", guessType).
			Msg("cache error, evaluating fresh records")
	} else {
		s.metrics.RecordCacheLookup("miss")
	}

	records, err := s.fetcher.FetchRecent(ctx, guessType, s.opts.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records for %s: %w", guessType, err)
	}

	return s.evaluate(ctx, metrics.SourceFetch, guessType, records, params)
}

// Mix backtests switching from the default to the assist model records and
// evaluates the mixed list. The result is not cached.
func (s *EvaluationService) Mix(ctx context.Context, defaults, assists []models.PredictionRecord, switchAfter int, overrides Overrides) (*MixResult, error) {
	params := overrides.Apply(s.ResolveParams(ctx))

	mixed, err := s.evaluator.Mix(defaults, assists, switchAfter, params)
	if err != nil {
		return nil, fmt.Errorf("mix failed: %w", err)
	}

	guessType := "mixed"
	if len(defaults) > 0 {
		guessType = defaults[0].GuessType
	}
	report, err := s.evaluator.EvaluateBatch(guessType, mixed, params)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	return &MixResult{Records: mixed, Report: report}, nil
}

// CompareModels fetches the latest limit records of every model and ranks
// each default/assist pairing under the switch strategies
func (s *EvaluationService) CompareModels(ctx context.Context, modelNames []string, limit int, strategies []int, overrides Overrides) ([]models.ComparisonResult, error) {
	if len(modelNames) == 0 {
		modelNames = s.opts.Models
	}
	if len(modelNames) < 2 {
		return nil, fmt.Errorf("%w: at least two models are required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.opts.FetchLimit
	}
	if limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}
	params := overrides.Apply(s.ResolveParams(ctx))

	var mu sync.Mutex
	data := make(map[string][]models.PredictionRecord, len(modelNames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)
	for _, name := range modelNames {
		name := name
		g.Go(func() error {
			records, err := s.fetcher.FetchRecent(gctx, name, limit)
			if err != nil {
				return fmt.Errorf("failed to fetch records for %s: %w", name, err)
			}
			mu.Lock()
			data[name] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results, err := s.evaluator.Compare(data, modelNames, strategies, params)
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}

	s.logger.Info().
		Strs("models", modelNames).
		Int("limit", limit).
		Int("combinations", len(results)).
		Msg("compared model combinations")

	return results, nil
}

// RefreshReports fetches the latest records of every configured model,
// evaluates them and caches the reports in one batch
func (s *EvaluationService) RefreshReports(ctx context.Context, overrides Overrides) ([]*models.EvaluationReport, error) {
	params := overrides.Apply(s.ResolveParams(ctx))
	reports := make([]*models.EvaluationReport, len(s.opts.Models))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)
	for i, name := range s.opts.Models {
		i, name := i, name
		g.Go(func() error {
			records, err := s.fetcher.FetchRecent(gctx, name, s.opts.FetchLimit)
			if err != nil {
				return fmt.Errorf("failed to fetch records for %s: %w", name, err)
			}

			start := time.Now()
			report, err := s.evaluator.EvaluateBatch(name, records, params)
			s.metrics.RecordEvaluation(metrics.SourceFetch, report, time.Since(start))
			if err != nil {
				return fmt.Errorf("evaluation of %s failed: %w", name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.cache.SetBatch(ctx, reports); err != nil {
		s.logger.Warn().
			Err(err).
			Int("count", len(reports)).
			Msg("failed to cache refreshed reports")
	}

	s.logger.Info().
		Strs("models", s.opts.Models).
		Int("limit", s.opts.FetchLimit).
		Msg("refreshed evaluation reports")

	return reports, nil
}

// CachedReports lists the cached reports of guessType under any parameters,
// newest first
func (s *EvaluationService) CachedReports(ctx context.Context, guessType string) ([]*models.EvaluationReport, error) {
	if guessType == "" {
		return nil, fmt.Errorf("%w: guess type is required", ErrInvalidInput)
	}

	reports, err := s.cache.GetByGuessType(ctx, guessType)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached reports for %s: %w", guessType, err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].EvaluatedAt.After(reports[j].EvaluatedAt)
	})
	return reports, nil
}

// Project returns the balance implied by outcome codes. A nil stake uses
// the resolved setting.
func (s *EvaluationService) Project(ctx context.Context, outcomes string, stake *models.StakeConfig) models.Projection {
	cfg := s.ResolveParams(ctx).Stake
	if stake != nil {
		cfg = *stake
	}
	return s.evaluator.Project(outcomes, cfg)
}

// GetSettings returns the resolved settings
func (s *EvaluationService) GetSettings(ctx context.Context) models.EvaluationParams {
	return s.ResolveParams(ctx)
}

// UpdateSettings stores the policy, continue flag and stake of params and
// returns the settings now in effect
func (s *EvaluationService) UpdateSettings(ctx context.Context, params models.EvaluationParams) (models.EvaluationParams, error) {
	if !params.Policy.Valid() {
		return models.EvaluationParams{}, fmt.Errorf("%w: unknown match policy %q", ErrInvalidInput, params.Policy)
	}

	if err := settings.Save(ctx, s.store, params); err != nil {
		return models.EvaluationParams{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info().
		Str("match_policy", string(params.Policy)).
		Bool("continue_after_win", params.ContinueAfterWin).
		Msg("updated settings")

	return s.ResolveParams(ctx), nil
}

// Ping checks the cache connection
func (s *EvaluationService) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}
