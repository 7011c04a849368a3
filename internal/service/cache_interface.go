package service

import (
	"context"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// Cache is an interface that abstracts cache operations
// This allows for easier testing and mocking
type Cache interface {
	Set(ctx context.Context, report *models.EvaluationReport) error
	Get(ctx context.Context, guessType string, params models.EvaluationParams) (*models.EvaluationReport, error)
	SetBatch(ctx context.Context, reports []*models.EvaluationReport) error
	GetByGuessType(ctx context.Context, guessType string) ([]*models.EvaluationReport, error)
	Ping(ctx context.Context) error
	Close() error
}
