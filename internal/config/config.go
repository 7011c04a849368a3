package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. PREDICTION_EVALUATOR_SERVER_PORT
const EnvPrefix = "PREDICTION_EVALUATOR"

// Config holds all configuration for prediction-evaluator-service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Redis      RedisConfig      `mapstructure:"redis"`
	API        APIConfig        `mapstructure:"api"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // Topic to consume from (prediction_results)
	GroupID string   `mapstructure:"group_id"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	TTL         time.Duration `mapstructure:"ttl"`          // Report cache expiry
	SettingsKey string        `mapstructure:"settings_key"` // Prefix of the settings keys
}

// APIConfig holds the guess-list API client configuration
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // Requests per second
	Burst     int           `mapstructure:"burst"`
	PageSize  int           `mapstructure:"page_size"`
}

// StakeConfig holds per-period stake multipliers
type StakeConfig struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

// EvaluationConfig holds the defaults used when no setting is stored
type EvaluationConfig struct {
	MatchPolicy      string      `mapstructure:"match_policy"` // option1, option2
	ContinueAfterWin bool        `mapstructure:"continue_after_win"`
	Stake            StakeConfig `mapstructure:"stake"`
	Window           string      `mapstructure:"window"` // current, two, three
	ComparisonLimit  int         `mapstructure:"comparison_limit"`
	Models           []string    `mapstructure:"models"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "prediction_results")
	v.SetDefault("kafka.group_id", "prediction-evaluator")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("redis.settings_key", "settings:")

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_limit", 4.0)
	v.SetDefault("api.burst", 4)
	v.SetDefault("api.page_size", 50)

	v.SetDefault("evaluation.match_policy", string(models.DefaultMatchPolicy))
	v.SetDefault("evaluation.continue_after_win", false)
	v.SetDefault("evaluation.stake.x", 1.0)
	v.SetDefault("evaluation.stake.y", 2.0)
	v.SetDefault("evaluation.stake.z", 4.0)
	v.SetDefault("evaluation.window", string(models.DefaultWindow))
	v.SetDefault("evaluation.comparison_limit", 50)
	v.SetDefault("evaluation.models", models.AllGuessTypes())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ToEvaluationParams converts config to evaluation parameters. Unknown
// policies and windows fall back to the defaults and the stake is clamped.
func (c *EvaluationConfig) ToEvaluationParams() models.EvaluationParams {
	params := models.DefaultEvaluationParams()

	if p := models.MatchPolicy(c.MatchPolicy); p.Valid() {
		params.Policy = p
	}
	if w := models.Window(c.Window); w.Valid() {
		params.Window = w
	}
	params.ContinueAfterWin = c.ContinueAfterWin
	params.Stake = models.StakeConfig{First: c.Stake.X, Second: c.Stake.Y, Third: c.Stake.Z}.Clamp()

	return params
}
