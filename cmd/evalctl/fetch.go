package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/client"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

func fetchCmd(a *app) *cobra.Command {
	f := &evaluateFlags{}
	var pageSize int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest records of a model and evaluate them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewGuessClient(
				a.cfg.API.BaseURL,
				a.logger,
				client.WithHTTPClient(&http.Client{Timeout: a.cfg.API.Timeout}),
				client.WithRateLimit(a.cfg.API.RateLimit, a.cfg.API.Burst),
				client.WithPageSize(a.cfg.API.PageSize),
			)

			records, err := c.FetchRecent(cmd.Context(), f.guessType, pageSize)
			if err != nil {
				return err
			}

			params := a.params
			applyParamFlags(cmd, &params, f)
			return a.evaluate(cmd, f.guessType, records, params)
		},
	}

	cmd.Flags().StringVar(&f.guessType, "guess-type", models.GuessTypeNormal, "model to fetch")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records to fetch (default: api.page_size)")
	addParamFlags(cmd, f)

	return cmd
}
