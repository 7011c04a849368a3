package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/metrics"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/service"
)

// ErrInvalidMessage is returned for messages that can never be evaluated
var ErrInvalidMessage = errors.New("invalid prediction message")

// messageReader is the part of *kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// KafkaConsumer consumes resolved prediction batches from Kafka and evaluates them
type KafkaConsumer struct {
	reader    messageReader
	evaluator service.BatchEvaluator
	metrics   *metrics.EvaluationMetrics
	logger    zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "prediction_results"
	GroupID string   // e.g., "prediction-evaluator"
}

// NewKafkaConsumer creates a new Kafka consumer. m may be nil.
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	evaluator service.BatchEvaluator,
	m *metrics.EvaluationMetrics,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1000, // Commit every 1 second
	})

	return newKafkaConsumer(reader, evaluator, m, logger)
}

func newKafkaConsumer(reader messageReader, evaluator service.BatchEvaluator, m *metrics.EvaluationMetrics, logger zerolog.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:    reader,
		evaluator: evaluator,
		metrics:   m,
		logger:    logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start consumes messages until ctx is canceled, then closes the reader so
// the group member leaves the group
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("stopping Kafka consumer")
			return c.Close()

		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					c.logger.Info().Msg("stopping Kafka consumer")
					return c.Close()
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.metrics.RecordKafkaMessage("error")
				c.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Str("key", string(msg.Key)).
					Msg("failed to process message")
				// Don't commit if processing failed
				continue
			}
			c.metrics.RecordKafkaMessage("success")

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to commit message")
			}
		}
	}
}

// processMessage evaluates the batch carried by msg
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var batch models.KafkaPredictionMessage
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		return fmt.Errorf("%w: failed to unmarshal message: %v", ErrInvalidMessage, err)
	}

	guessType := batchGuessType(batch)
	if guessType == "" {
		return fmt.Errorf("%w: batch %s has no guess type", ErrInvalidMessage, batch.BatchID)
	}

	c.logger.Debug().
		Int("record_count", len(batch.Records)).
		Str("batch_id", batch.BatchID).
		Str("guess_type", guessType).
		Msg("processing prediction batch")

	report, err := c.evaluator.EvaluateRecords(ctx, metrics.SourceKafka, guessType, batch.Records, service.Overrides{})
	if err != nil {
		return fmt.Errorf("failed to evaluate batch %s: %w", batch.BatchID, err)
	}

	c.logger.Info().
		Int("record_count", len(batch.Records)).
		Str("batch_id", batch.BatchID).
		Str("report_id", report.ID.String()).
		Int("total_balance", report.TotalBalance).
		Msg("processed prediction batch")

	return nil
}

// batchGuessType falls back to the guess type of the first record
func batchGuessType(batch models.KafkaPredictionMessage) string {
	if batch.GuessType != "" {
		return batch.GuessType
	}
	if len(batch.Records) > 0 {
		return batch.Records[0].GuessType
	}
	return ""
}

// Close closes the Kafka reader. Calls after the first return its result.
func (c *KafkaConsumer) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.reader.Close()
	})
	return c.closeErr
}
