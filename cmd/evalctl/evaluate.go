package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/pkg/evaluator"
)

type evaluateFlags struct {
	file             string
	guessType        string
	window           string
	policy           string
	continueAfterWin bool
}

func evaluateCmd(a *app) *cobra.Command {
	f := &evaluateFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate prediction records from a file",
		Long: `Evaluate reads a JSON array of prediction records, or a saved guess-list
API response, and prints the per-record results with win rates and totals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := readRecords(f.file)
			if err != nil {
				return err
			}

			params := a.params
			applyParamFlags(cmd, &params, f)

			guessType := f.guessType
			if guessType == "" && len(records) > 0 {
				guessType = records[0].GuessType
			}
			return a.evaluate(cmd, guessType, records, params)
		},
	}

	cmd.Flags().StringVar(&f.file, "file", "", "records file")
	cmd.Flags().StringVar(&f.guessType, "guess-type", "", "guess type of the records (default: taken from the first record)")
	addParamFlags(cmd, f)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func addParamFlags(cmd *cobra.Command, f *evaluateFlags) {
	cmd.Flags().StringVar(&f.window, "window", "", "win window (current, two, three)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "match policy (option1, option2)")
	cmd.Flags().BoolVar(&f.continueAfterWin, "continue-after-win", false, "keep betting after a win")
}

// applyParamFlags overrides params with the flags set on cmd
func applyParamFlags(cmd *cobra.Command, params *models.EvaluationParams, f *evaluateFlags) {
	if f.window != "" {
		params.Window = models.Window(f.window)
	}
	if f.policy != "" {
		params.Policy = models.MatchPolicy(f.policy)
	}
	if cmd.Flags().Changed("continue-after-win") {
		params.ContinueAfterWin = f.continueAfterWin
	}
}

func (a *app) evaluate(cmd *cobra.Command, guessType string, records []models.PredictionRecord, params models.EvaluationParams) error {
	report, err := evaluator.NewEvaluator(a.logger).EvaluateBatch(guessType, records, params)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if a.jsonOutput {
		return printJSON(cmd.OutOrStdout(), report)
	}
	return printReport(cmd.OutOrStdout(), report)
}
