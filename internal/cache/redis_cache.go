package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// ErrNotFound is returned when no report is cached under a key
var ErrNotFound = errors.New("report not found in cache")

// RedisCache caches evaluation reports in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// RedisCacheConfig holds Redis cache configuration
type RedisCacheConfig struct {
	Addr     string // e.g., "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration // e.g., 5 * time.Minute
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisCacheConfig, logger zerolog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisCache{
		client: client,
		ttl:    config.TTL,
		logger: logger.With().Str("component", "redis_cache").Logger(),
	}
}

// ReportKey builds the key of a report: report:{guess_type}:{policy}:{window}:{continue}:{x}:{y}:{z}.
// Reports computed under different parameters never share a key.
func ReportKey(guessType string, params models.EvaluationParams) string {
	return fmt.Sprintf("report:%s:%s:%s:%t:%s:%s:%s",
		guessType,
		params.Policy,
		params.Window,
		params.ContinueAfterWin,
		formatStake(params.Stake.First),
		formatStake(params.Stake.Second),
		formatStake(params.Stake.Third),
	)
}

func formatStake(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Set caches an evaluation report
func (c *RedisCache) Set(ctx context.Context, report *models.EvaluationReport) error {
	key := ReportKey(report.GuessType, report.Params)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	c.logger.Debug().
		Str("key", key).
		Dur("ttl", c.ttl).
		Msg("cached evaluation report")

	return nil
}

// Get retrieves the cached report of guessType evaluated under params
func (c *RedisCache) Get(ctx context.Context, guessType string, params models.EvaluationParams) (*models.EvaluationReport, error) {
	key := ReportKey(guessType, params)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var report models.EvaluationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// SetBatch caches multiple reports in one pipeline
func (c *RedisCache) SetBatch(ctx context.Context, reports []*models.EvaluationReport) error {
	if len(reports) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()

	for _, report := range reports {
		data, err := json.Marshal(report)
		if err != nil {
			c.logger.Error().Err(err).Str("guess_type", report.GuessType).Msg("failed to marshal report")
			continue
		}
		pipe.Set(ctx, ReportKey(report.GuessType, report.Params), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}

	c.logger.Info().
		Int("count", len(reports)).
		Msg("cached batch of evaluation reports")

	return nil
}

// GetByGuessType retrieves every cached report of guessType, whatever
// parameters it was evaluated with
func (c *RedisCache) GetByGuessType(ctx context.Context, guessType string) ([]*models.EvaluationReport, error) {
	pattern := fmt.Sprintf("report:%s:*", guessType)

	var cursor uint64
	var keys []string

	for {
		var scanKeys []string
		var err error
		scanKeys, cursor, err = c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	reports := make([]*models.EvaluationReport, 0, len(keys))
	for _, key := range keys {
		data, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to get key")
			continue
		}

		var report models.EvaluationReport
		if err := json.Unmarshal(data, &report); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to unmarshal report")
			continue
		}

		reports = append(reports, &report)
	}

	return reports, nil
}

// Ping checks Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client returns the underlying client, shared with the settings store
func (c *RedisCache) Client() *redis.Client {
	return c.client
}
