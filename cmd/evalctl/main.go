package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/config"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/settings"
)

// app carries what the subcommands share once the root pre-run has loaded config
type app struct {
	cfgFile      string
	settingsFile string
	logLevel     string
	jsonOutput   bool

	cfg    *config.Config
	logger zerolog.Logger
	params models.EvaluationParams
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "evalctl",
		Short: "Evaluate lottery predictions offline",
		Long: `evalctl scores prediction records the way the evaluation service does:
win checks over one to three periods, the staged bet and the balance
simulation, and projections from outcome codes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: built-in defaults and PREDICTION_EVALUATOR_* env)")
	root.PersistentFlags().StringVar(&a.settingsFile, "settings", "", "JSON file of stored dashboard settings")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(evaluateCmd(a))
	root.AddCommand(projectCmd(a))
	root.AddCommand(fetchCmd(a))

	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load loads .env, config and stored settings
func (a *app) load(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("service", "evalctl").Logger()

	values, err := readSettingsFile(a.settingsFile)
	if err != nil {
		return err
	}
	params, err := settings.Resolve(ctx, settings.NewMemoryStore(values), cfg.Evaluation.ToEvaluationParams())
	if err != nil {
		return fmt.Errorf("failed to resolve settings: %w", err)
	}
	a.params = params

	return nil
}
