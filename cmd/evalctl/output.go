package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, report *models.EvaluationReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "PERIOD\tPREDICTION\tCURRENT\tTWO\tTHREE\tPROFIT\tBALANCE")
	for _, r := range report.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Period,
			r.Prediction,
			mark(r.CurrentPeriodWin),
			mark(r.TwoPeriodWin),
			mark(r.ThreePeriodWin),
			r.ProfitTrace,
			r.BalanceTrace,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	rates := report.WinRates
	fmt.Fprintf(w, "\nwin rate  current %.2f%% (%d/%d)  two %.2f%% (%d/%d)  three %.2f%% (%d/%d)\n",
		rates.Current.Rate, rates.Current.Wins, rates.Current.Total,
		rates.Two.Rate, rates.Two.Wins, rates.Two.Total,
		rates.Three.Rate, rates.Three.Wins, rates.Three.Total,
	)
	if report.OutcomeCodes != "" {
		fmt.Fprintf(w, "outcome codes %s\n", report.OutcomeCodes)
	}
	_, err := fmt.Fprintf(w, "total profit %d  total balance %d\n", report.TotalProfit, report.TotalBalance)
	return err
}

func printProjection(w io.Writer, p models.Projection) error {
	_, err := fmt.Fprintf(w, "first %d  second %d  third %d  lost %d  balance %s\n",
		p.WonFirst, p.WonSecond, p.WonThird, p.Lost, p.Balance.String())
	return err
}

func mark(win bool) string {
	if win {
		return "win"
	}
	return "-"
}
