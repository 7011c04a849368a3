package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/pkg/evaluator"
)

func projectCmd(a *app) *cobra.Command {
	var (
		outcomes string
		file     string
		policy   string
		x, y, z  float64
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the balance of a string of outcome codes",
		Long: `Project tallies outcome codes (1, 2, 3: won in that period, 0: lost all
three) and prints the balance they imply under the stake multipliers.
Unset multipliers come from the stored settings. With --file the codes are
derived from the resolved records in a records file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				records, err := readRecords(file)
				if err != nil {
					return err
				}
				matchPolicy := a.params.Policy
				if policy != "" {
					matchPolicy = models.MatchPolicy(policy)
				}
				if !matchPolicy.Valid() {
					return fmt.Errorf("%w: %q", evaluator.ErrInvalidPolicy, matchPolicy)
				}
				outcomes = evaluator.OutcomeCodes(records, matchPolicy)
				a.logger.Debug().Str("outcomes", outcomes).Msg("derived outcome codes")
			}

			stake := a.params.Stake
			if cmd.Flags().Changed("x") {
				stake.First = x
			}
			if cmd.Flags().Changed("y") {
				stake.Second = y
			}
			if cmd.Flags().Changed("z") {
				stake.Third = z
			}

			p := evaluator.NewEvaluator(a.logger).Project(outcomes, stake)
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), p)
			}
			return printProjection(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&outcomes, "outcomes", "", "outcome codes, e.g. 1203")
	cmd.Flags().StringVar(&file, "file", "", "records file to derive outcome codes from")
	cmd.Flags().StringVar(&policy, "policy", "", "match policy used with --file (option1, option2)")
	cmd.Flags().Float64Var(&x, "x", 0, "first period multiplier")
	cmd.Flags().Float64Var(&y, "y", 0, "second period multiplier")
	cmd.Flags().Float64Var(&z, "z", 0, "third period multiplier")
	cmd.MarkFlagsOneRequired("outcomes", "file")
	cmd.MarkFlagsMutuallyExclusive("outcomes", "file")

	return cmd
}
