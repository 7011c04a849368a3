// Package metrics provides Prometheus metrics for the evaluation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// Evaluation sources
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
	SourceFetch = "fetch"
)

// EvaluationMetrics collects evaluation-related Prometheus metrics.
// A nil *EvaluationMetrics records nothing.
type EvaluationMetrics struct {
	registry *prometheus.Registry

	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	RecordsEvaluated   *prometheus.CounterVec
	OutcomesTotal      *prometheus.CounterVec
	WinRate            *prometheus.GaugeVec
	TotalBalance       *prometheus.GaugeVec

	KafkaMessagesTotal *prometheus.CounterVec
	CacheRequestsTotal *prometheus.CounterVec
	APIRequestsTotal   *prometheus.CounterVec
}

// NewEvaluationMetrics creates the collectors on a fresh registry
func NewEvaluationMetrics() *EvaluationMetrics {
	m := &EvaluationMetrics{
		registry: prometheus.NewRegistry(),

		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_evaluations_total",
				Help: "Total number of evaluated prediction batches",
			},
			[]string{"source", "status"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prediction_evaluation_duration_seconds",
				Help:    "Time spent evaluating a prediction batch",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~1.6s
			},
			[]string{"source"},
		),
		RecordsEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_records_evaluated_total",
				Help: "Total number of evaluated prediction records",
			},
			[]string{"guess_type"},
		),
		OutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_outcomes_total",
				Help: "Evaluated records by three-period outcome",
			},
			[]string{"guess_type", "outcome"},
		),
		WinRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prediction_win_rate_percent",
				Help: "Win rate of the last evaluated batch",
			},
			[]string{"guess_type", "window"},
		),
		TotalBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "prediction_total_balance",
				Help: "Simulated balance of the last evaluated batch",
			},
			[]string{"guess_type"},
		),
		KafkaMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_kafka_messages_total",
				Help: "Kafka messages consumed by status",
			},
			[]string{"status"},
		),
		CacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_cache_requests_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prediction_api_requests_total",
				Help: "Guess-list API requests by status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.EvaluationsTotal,
		m.EvaluationDuration,
		m.RecordsEvaluated,
		m.OutcomesTotal,
		m.WinRate,
		m.TotalBalance,
		m.KafkaMessagesTotal,
		m.CacheRequestsTotal,
		m.APIRequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry served on /metrics
func (m *EvaluationMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEvaluation records a finished evaluation. report is nil on failure.
func (m *EvaluationMetrics) RecordEvaluation(source string, report *models.EvaluationReport, duration time.Duration) {
	if m == nil {
		return
	}

	m.EvaluationDuration.WithLabelValues(source).Observe(duration.Seconds())
	if report == nil {
		m.EvaluationsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	m.EvaluationsTotal.WithLabelValues(source, "success").Inc()

	guessType := report.GuessType
	m.RecordsEvaluated.WithLabelValues(guessType).Add(float64(len(report.Records)))

	for i := range report.Records {
		m.OutcomesTotal.WithLabelValues(guessType, outcome(&report.Records[i])).Inc()
	}

	m.WinRate.WithLabelValues(guessType, string(models.WindowCurrent)).Set(report.WinRates.Current.Rate)
	m.WinRate.WithLabelValues(guessType, string(models.WindowTwo)).Set(report.WinRates.Two.Rate)
	m.WinRate.WithLabelValues(guessType, string(models.WindowThree)).Set(report.WinRates.Three.Rate)
	m.TotalBalance.WithLabelValues(guessType).Set(float64(report.TotalBalance))
}

// RecordKafkaMessage counts a consumed message
func (m *EvaluationMetrics) RecordKafkaMessage(status string) {
	if m == nil {
		return
	}
	m.KafkaMessagesTotal.WithLabelValues(status).Inc()
}

// RecordCacheLookup counts a cache hit, miss or error
func (m *EvaluationMetrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// RecordAPIRequest counts a guess-list API call
func (m *EvaluationMetrics) RecordAPIRequest(status string) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(status).Inc()
}

func outcome(r *models.EvaluatedRecord) string {
	switch {
	case r.ThreePeriodWin:
		return "win"
	case len(r.Draws) >= 3:
		return "loss"
	default:
		return "pending"
	}
}
