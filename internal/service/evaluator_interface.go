package service

import (
	"context"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// Evaluator is an interface that abstracts prediction evaluation operations
// This allows for easier testing and mocking
type Evaluator interface {
	EvaluateBatch(guessType string, records []models.PredictionRecord, params models.EvaluationParams) (*models.EvaluationReport, error)
	Mix(defaults, assists []models.PredictionRecord, switchAfter int, params models.EvaluationParams) ([]models.PredictionRecord, error)
	Compare(data map[string][]models.PredictionRecord, modelNames []string, strategies []int, params models.EvaluationParams) ([]models.ComparisonResult, error)
	Project(outcomes string, stake models.StakeConfig) models.Projection
}

// GuessFetcher reads prediction records from the guess-list API
type GuessFetcher interface {
	FetchRecent(ctx context.Context, guessType string, limit int) ([]models.PredictionRecord, error)
}

// BatchEvaluator evaluates and caches a batch of records
type BatchEvaluator interface {
	EvaluateRecords(ctx context.Context, source, guessType string, records []models.PredictionRecord, overrides Overrides) (*models.EvaluationReport, error)
}
