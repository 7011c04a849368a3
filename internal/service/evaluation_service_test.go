package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/cache"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/metrics"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/mocks"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/service"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/settings"
)

// testServiceSetup is a helper struct to hold test dependencies
type testServiceSetup struct {
	service       *service.EvaluationService
	mockEvaluator *mocks.MockEvaluator
	mockCache     *mocks.MockCache
	mockFetcher   *mocks.MockGuessFetcher
	store         *settings.MemoryStore
	metrics       *metrics.EvaluationMetrics
	defaults      models.EvaluationParams
	ctrl          *gomock.Controller
}

// setupTestService creates a test service with mocked dependencies
func setupTestService(t *testing.T) *testServiceSetup {
	ctrl := gomock.NewController(t)

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockCache := mocks.NewMockCache(ctrl)
	mockFetcher := mocks.NewMockGuessFetcher(ctrl)
	store := settings.NewMemoryStore(nil)
	m := metrics.NewEvaluationMetrics()
	defaults := models.DefaultEvaluationParams()

	svc := service.NewEvaluationService(
		mockEvaluator,
		mockCache,
		mockFetcher,
		store,
		m,
		service.Options{
			Defaults:   defaults,
			FetchLimit: 20,
			Models:     []string{models.GuessTypeNormal, models.GuessTypePlus},
		},
		zerolog.Nop(),
	)

	return &testServiceSetup{
		service:       svc,
		mockEvaluator: mockEvaluator,
		mockCache:     mockCache,
		mockFetcher:   mockFetcher,
		store:         store,
		metrics:       m,
		defaults:      defaults,
		ctrl:          ctrl,
	}
}

// cleanup cleans up test resources
func (s *testServiceSetup) cleanup() {
	s.ctrl.Finish()
}

func testRecords(guessType string) []models.PredictionRecord {
	return []models.PredictionRecord{
		{ID: guessType + "-2", Period: "1002", GuessTime: 2, GuessType: guessType},
		{ID: guessType + "-1", Period: "1001", GuessTime: 1, GuessType: guessType},
	}
}

func testReport(guessType string, params models.EvaluationParams) *models.EvaluationReport {
	return &models.EvaluationReport{
		ID:           uuid.New(),
		GuessType:    guessType,
		Params:       params,
		TotalBalance: 42,
	}
}

// TestNewEvaluationService tests service creation
func TestNewEvaluationService(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	assert.NotNil(t, setup.service)
}

// TestEvaluateRecords_Success tests evaluating and caching a batch
func TestEvaluateRecords_Success(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	records := testRecords(models.GuessTypeNormal)
	report := testReport(models.GuessTypeNormal, setup.defaults)

	setup.mockEvaluator.EXPECT().
		EvaluateBatch(models.GuessTypeNormal, records, setup.defaults).
		Return(report, nil)
	setup.mockCache.EXPECT().Set(ctx, report).Return(nil)

	result, err := setup.service.EvaluateRecords(ctx, metrics.SourceHTTP, models.GuessTypeNormal, records, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, report, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.EvaluationsTotal.WithLabelValues(metrics.SourceHTTP, "success")))
}

// TestEvaluateRecords_StoredSettingsAndOverrides tests settings resolution order
func TestEvaluateRecords_StoredSettingsAndOverrides(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	require.NoError(t, setup.store.Set(ctx, settings.KeyMatchPolicy, string(models.FirstDigitOnly)))
	require.NoError(t, setup.store.Set(ctx, settings.KeyStake, `{"x":3}`))

	window := models.WindowCurrent
	continueOn := true
	overrides := service.Overrides{Window: &window, ContinueAfterWin: &continueOn}

	expected := setup.defaults
	expected.Policy = models.FirstDigitOnly
	expected.Stake.First = 3
	expected.Window = models.WindowCurrent
	expected.ContinueAfterWin = true

	records := testRecords(models.GuessTypePlus)
	report := testReport(models.GuessTypePlus, expected)
	setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypePlus, records, expected).Return(report, nil)
	setup.mockCache.EXPECT().Set(ctx, report).Return(nil)

	_, err := setup.service.EvaluateRecords(ctx, metrics.SourceKafka, models.GuessTypePlus, records, overrides)
	require.NoError(t, err)
}

// TestEvaluateRecords_CacheError tests that cache failures don't fail the request
func TestEvaluateRecords_CacheError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	records := testRecords(models.GuessTypeNormal)
	report := testReport(models.GuessTypeNormal, setup.defaults)

	setup.mockEvaluator.EXPECT().EvaluateBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(report, nil)
	setup.mockCache.EXPECT().Set(ctx, report).Return(errors.New("redis down"))

	result, err := setup.service.EvaluateRecords(ctx, metrics.SourceHTTP, models.GuessTypeNormal, records, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, report, result)
}

// TestEvaluateRecords_EvaluatorError tests evaluation failures
func TestEvaluateRecords_EvaluatorError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	sentinel := errors.New("invalid window")

	setup.mockEvaluator.EXPECT().EvaluateBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel)

	result, err := setup.service.EvaluateRecords(ctx, metrics.SourceHTTP, models.GuessTypeNormal, nil, service.Overrides{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.EvaluationsTotal.WithLabelValues(metrics.SourceHTTP, "error")))
}

// TestEvaluateRecords_SettingsError tests fallback to defaults on store errors
func TestEvaluateRecords_SettingsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockCache := mocks.NewMockCache(ctrl)
	mockStore := mocks.NewMockStore(ctrl)
	defaults := models.DefaultEvaluationParams()

	svc := service.NewEvaluationService(mockEvaluator, mockCache, mocks.NewMockGuessFetcher(ctrl), mockStore, nil,
		service.Options{Defaults: defaults}, zerolog.Nop())

	ctx := context.Background()
	report := testReport(models.GuessTypeNormal, defaults)

	mockStore.EXPECT().Get(ctx, settings.KeyMatchPolicy).Return("", false, errors.New("connection refused"))
	mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypeNormal, gomock.Any(), defaults).Return(report, nil)
	mockCache.EXPECT().Set(ctx, report).Return(nil)

	_, err := svc.EvaluateRecords(ctx, metrics.SourceHTTP, models.GuessTypeNormal, nil, service.Overrides{})
	require.NoError(t, err)
}

// TestGetReport_CacheHit tests cache-first retrieval
func TestGetReport_CacheHit(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	report := testReport(models.GuessTypeNormal, setup.defaults)

	setup.mockCache.EXPECT().Get(ctx, models.GuessTypeNormal, setup.defaults).Return(report, nil)

	result, err := setup.service.GetReport(ctx, models.GuessTypeNormal, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, report, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.CacheRequestsTotal.WithLabelValues("hit")))
}

// TestGetReport_CacheMiss tests fetching and evaluating on a miss
func TestGetReport_CacheMiss(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	records := testRecords(models.GuessTypeNormal)
	report := testReport(models.GuessTypeNormal, setup.defaults)

	gomock.InOrder(
		setup.mockCache.EXPECT().Get(ctx, models.GuessTypeNormal, setup.defaults).Return(nil, cache.ErrNotFound),
		setup.mockFetcher.EXPECT().FetchRecent(ctx, models.GuessTypeNormal, 20).Return(records, nil),
		setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypeNormal, records, setup.defaults).Return(report, nil),
		setup.mockCache.EXPECT().Set(ctx, report).Return(nil),
	)

	result, err := setup.service.GetReport(ctx, models.GuessTypeNormal, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, report, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.CacheRequestsTotal.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.EvaluationsTotal.WithLabelValues(metrics.SourceFetch, "success")))
}

// TestGetReport_CacheError tests that cache errors fall through to a fresh evaluation
func TestGetReport_CacheError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	records := testRecords(models.GuessTypeNormal)
	report := testReport(models.GuessTypeNormal, setup.defaults)

	setup.mockCache.EXPECT().Get(ctx, models.GuessTypeNormal, setup.defaults).Return(nil, errors.New("redis timeout"))
	setup.mockFetcher.EXPECT().FetchRecent(ctx, models.GuessTypeNormal, 20).Return(records, nil)
	setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypeNormal, records, setup.defaults).Return(report, nil)
	setup.mockCache.EXPECT().Set(ctx, report).Return(nil)

	result, err := setup.service.GetReport(ctx, models.GuessTypeNormal, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, report, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(setup.metrics.CacheRequestsTotal.WithLabelValues("error")))
}

// TestGetReport_FetchError tests upstream failures
func TestGetReport_FetchError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	upstream := errors.New("api error 502")

	setup.mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, cache.ErrNotFound)
	setup.mockFetcher.EXPECT().FetchRecent(ctx, models.GuessTypeNormal, 20).Return(nil, upstream)

	result, err := setup.service.GetReport(ctx, models.GuessTypeNormal, service.Overrides{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, upstream)
}

// TestGetReport_MissingGuessType tests input validation
func TestGetReport_MissingGuessType(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	_, err := setup.service.GetReport(context.Background(), "", service.Overrides{})

	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

// TestMix_Success tests mixing and evaluating without caching
func TestMix_Success(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	defaults := testRecords(models.GuessTypeNormal)
	assists := testRecords(models.GuessTypePlus)
	mixed := []models.PredictionRecord{defaults[0], assists[1]}
	report := testReport(models.GuessTypeNormal, setup.defaults)

	setup.mockEvaluator.EXPECT().Mix(defaults, assists, 2, setup.defaults).Return(mixed, nil)
	setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypeNormal, mixed, setup.defaults).Return(report, nil)

	result, err := setup.service.Mix(ctx, defaults, assists, 2, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, mixed, result.Records)
	assert.Equal(t, report, result.Report)
}

// TestMix_Error tests mix failures
func TestMix_Error(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	sentinel := errors.New("invalid switch strategy")
	setup.mockEvaluator.EXPECT().Mix(gomock.Any(), gomock.Any(), 0, gomock.Any()).Return(nil, sentinel)

	_, err := setup.service.Mix(context.Background(), nil, nil, 0, service.Overrides{})

	assert.ErrorIs(t, err, sentinel)
}

// TestCompareModels_Success tests fetching every model before comparing
func TestCompareModels_Success(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	normal := testRecords(models.GuessTypeNormal)
	plus := testRecords(models.GuessTypePlus)
	results := []models.ComparisonResult{{DefaultModel: models.GuessTypePlus, AssistModel: models.GuessTypeNormal, SwitchStrategy: 1}}

	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypeNormal, 30).Return(normal, nil)
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypePlus, 30).Return(plus, nil)

	expectedData := map[string][]models.PredictionRecord{
		models.GuessTypeNormal: normal,
		models.GuessTypePlus:   plus,
	}
	modelNames := []string{models.GuessTypeNormal, models.GuessTypePlus}
	setup.mockEvaluator.EXPECT().Compare(expectedData, modelNames, []int{1}, setup.defaults).Return(results, nil)

	got, err := setup.service.CompareModels(ctx, nil, 30, []int{1}, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, results, got)
}

// TestCompareModels_DefaultLimit tests the configured fetch limit
func TestCompareModels_DefaultLimit(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	names := []string{models.GuessTypeGemini, models.GuessTypeGeminiPlus}
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), gomock.Any(), 20).Return(nil, nil).Times(2)
	setup.mockEvaluator.EXPECT().Compare(gomock.Any(), names, gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := setup.service.CompareModels(context.Background(), names, 0, nil, service.Overrides{})
	require.NoError(t, err)
}

// TestCompareModels_LimitCapped tests that oversized limits are capped
func TestCompareModels_LimitCapped(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), gomock.Any(), service.MaxFetchLimit).Return(nil, nil).Times(2)
	setup.mockEvaluator.EXPECT().Compare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := setup.service.CompareModels(context.Background(), nil, 50000, nil, service.Overrides{})
	require.NoError(t, err)
}

// TestRefreshReports_Success tests evaluating every model and caching in one batch
func TestRefreshReports_Success(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	normal := testRecords(models.GuessTypeNormal)
	plus := testRecords(models.GuessTypePlus)
	normalReport := testReport(models.GuessTypeNormal, setup.defaults)
	plusReport := testReport(models.GuessTypePlus, setup.defaults)

	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypeNormal, 20).Return(normal, nil)
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypePlus, 20).Return(plus, nil)
	setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypeNormal, normal, setup.defaults).Return(normalReport, nil)
	setup.mockEvaluator.EXPECT().EvaluateBatch(models.GuessTypePlus, plus, setup.defaults).Return(plusReport, nil)
	setup.mockCache.EXPECT().SetBatch(ctx, []*models.EvaluationReport{normalReport, plusReport}).Return(nil)

	reports, err := setup.service.RefreshReports(ctx, service.Overrides{})

	require.NoError(t, err)
	assert.Equal(t, []*models.EvaluationReport{normalReport, plusReport}, reports)
	assert.Equal(t, 2.0, testutil.ToFloat64(setup.metrics.EvaluationsTotal.WithLabelValues(metrics.SourceFetch, "success")))
}

// TestRefreshReports_CacheError tests that cache errors don't fail the refresh
func TestRefreshReports_CacheError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), gomock.Any(), 20).Return(nil, nil).Times(2)
	setup.mockEvaluator.EXPECT().EvaluateBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(guessType string, _ []models.PredictionRecord, params models.EvaluationParams) (*models.EvaluationReport, error) {
			return testReport(guessType, params), nil
		}).Times(2)
	setup.mockCache.EXPECT().SetBatch(gomock.Any(), gomock.Len(2)).Return(errors.New("redis down"))

	reports, err := setup.service.RefreshReports(context.Background(), service.Overrides{})

	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

// TestRefreshReports_FetchError tests that nothing is cached when a fetch fails
func TestRefreshReports_FetchError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	upstream := errors.New("api error 500")
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypeNormal, 20).Return(nil, upstream)
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypePlus, 20).Return(nil, nil).AnyTimes()
	setup.mockEvaluator.EXPECT().EvaluateBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(testReport(models.GuessTypePlus, setup.defaults), nil).AnyTimes()

	_, err := setup.service.RefreshReports(context.Background(), service.Overrides{})

	assert.ErrorIs(t, err, upstream)
}

// TestCachedReports tests listing cached reports newest first
func TestCachedReports(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	older := testReport(models.GuessTypeNormal, setup.defaults)
	older.EvaluatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := testReport(models.GuessTypeNormal, setup.defaults)
	newer.EvaluatedAt = older.EvaluatedAt.Add(time.Hour)

	setup.mockCache.EXPECT().GetByGuessType(gomock.Any(), models.GuessTypeNormal).Return([]*models.EvaluationReport{older, newer}, nil)

	reports, err := setup.service.CachedReports(context.Background(), models.GuessTypeNormal)

	require.NoError(t, err)
	assert.Equal(t, []*models.EvaluationReport{newer, older}, reports)
}

// TestCachedReports_Errors tests input validation and cache failures
func TestCachedReports_Errors(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	_, err := setup.service.CachedReports(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	sentinel := errors.New("scan failed")
	setup.mockCache.EXPECT().GetByGuessType(gomock.Any(), models.GuessTypePlus).Return(nil, sentinel)

	_, err = setup.service.CachedReports(context.Background(), models.GuessTypePlus)
	assert.ErrorIs(t, err, sentinel)
}

// TestCompareModels_FetchError tests that any fetch failure aborts the comparison
func TestCompareModels_FetchError(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	upstream := errors.New("api error 500")
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypeNormal, gomock.Any()).Return(nil, upstream)
	setup.mockFetcher.EXPECT().FetchRecent(gomock.Any(), models.GuessTypePlus, gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := setup.service.CompareModels(context.Background(), nil, 10, nil, service.Overrides{})

	assert.ErrorIs(t, err, upstream)
}

// TestCompareModels_TooFewModels tests input validation
func TestCompareModels_TooFewModels(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	_, err := setup.service.CompareModels(context.Background(), []string{models.GuessTypeNormal}, 10, nil, service.Overrides{})

	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

// TestProject tests projections with stored and explicit stakes
func TestProject(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	stored := models.Projection{WonFirst: 1, Balance: decimal.RequireFromString("62.7")}
	explicit := models.Projection{WonFirst: 1, Balance: decimal.RequireFromString("627")}

	setup.mockEvaluator.EXPECT().Project("1", setup.defaults.Stake).Return(stored)
	setup.mockEvaluator.EXPECT().Project("1", models.StakeConfig{First: 10}).Return(explicit)

	assert.Equal(t, stored, setup.service.Project(ctx, "1", nil))
	assert.Equal(t, explicit, setup.service.Project(ctx, "1", &models.StakeConfig{First: 10}))
}

// TestUpdateSettings tests storing and resolving settings
func TestUpdateSettings(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	params := models.EvaluationParams{
		Policy:           models.FirstDigitOnly,
		ContinueAfterWin: true,
		Stake:            models.StakeConfig{First: 5, Second: 500, Third: 1},
		Window:           models.WindowTwo,
	}

	got, err := setup.service.UpdateSettings(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, models.FirstDigitOnly, got.Policy)
	assert.True(t, got.ContinueAfterWin)
	assert.Equal(t, models.StakeConfig{First: 5, Second: 100, Third: 1}, got.Stake)
	// window is not stored
	assert.Equal(t, setup.defaults.Window, got.Window)
	assert.Equal(t, got, setup.service.GetSettings(ctx))
}

// TestUpdateSettings_InvalidPolicy tests policy validation
func TestUpdateSettings_InvalidPolicy(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	params := setup.defaults
	params.Policy = "option9"

	_, err := setup.service.UpdateSettings(context.Background(), params)

	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, found, _ := setup.store.Get(context.Background(), settings.KeyMatchPolicy)
	assert.False(t, found)
}

// TestPing tests the cache health check
func TestPing(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	ctx := context.Background()
	setup.mockCache.EXPECT().Ping(ctx).Return(nil)

	assert.NoError(t, setup.service.Ping(ctx))
}

// TestEvaluateRecords_ConcurrentAccess tests thread safety
func TestEvaluateRecords_ConcurrentAccess(t *testing.T) {
	setup := setupTestService(t)
	defer setup.cleanup()

	report := testReport(models.GuessTypeNormal, setup.defaults)
	setup.mockEvaluator.EXPECT().EvaluateBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(report, nil).Times(10)
	setup.mockCache.EXPECT().Set(gomock.Any(), report).Return(nil).Times(10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := setup.service.EvaluateRecords(context.Background(), metrics.SourceHTTP, models.GuessTypeNormal, nil, service.Overrides{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
