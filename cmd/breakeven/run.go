package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/aristath/breakeven/internal/di"
	"github.com/aristath/breakeven/internal/modules/report"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/aristath/breakeven/pkg/formulas"
	"github.com/spf13/cobra"
)

func runCmd(a *app) *cobra.Command {
	var (
		scenario   string
		reportPath string
		threshold  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a scenario, sweep the deposit rate and write the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSimulation(cmd.Context(), cmd.OutOrStdout(), scenario, reportPath, threshold)
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "YAML scenario file (missing keys use the defaults)")
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Report output path (defaults to REPORT_PATH)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Break-even threshold in years (defaults to RECOMMENDATION_THRESHOLD_YEARS)")
	return cmd
}

func sensitivityCmd(a *app) *cobra.Command {
	var (
		scenario string
		from     float64
		to       float64
		samples  int
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep the deposit rate and print the break-even year per rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := loadScenario(scenario)
			if err != nil {
				return err
			}
			rates, err := sensitivity.RateRange(from, to, samples)
			if err != nil {
				return err
			}
			if workers == 0 {
				workers = a.cfg.SensitivityWorkers
			}

			analyzer := sensitivity.NewAnalyzer(workers, a.log)
			result, err := analyzer.Analyze(params, rates)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.PrintSensitivity(out, result); err != nil {
				return err
			}
			printSummary(out, sensitivity.Summarize(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "YAML scenario file")
	cmd.Flags().Float64Var(&from, "from", sensitivity.DefaultRateFrom, "Lowest deposit rate (decimal)")
	cmd.Flags().Float64Var(&to, "to", sensitivity.DefaultRateTo, "Highest deposit rate (decimal)")
	cmd.Flags().IntVar(&samples, "samples", sensitivity.DefaultSamples, "Number of evenly spaced rates")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel workers (defaults to SENSITIVITY_WORKERS)")
	return cmd
}

func depositCmd(_ *app) *cobra.Command {
	var (
		principal float64
		rate      float64
		years     int
	)

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Print the year-by-year growth of a deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if math.IsNaN(principal) || math.IsInf(principal, 0) || principal < 0 {
				return errors.New("principal must be a finite, non-negative number")
			}
			if math.IsNaN(rate) || math.IsInf(rate, 0) {
				return errors.New("rate must be a finite number")
			}
			if years < 1 || years > simulation.MaxHorizonYears {
				return fmt.Errorf("years must be between 1 and %d", simulation.MaxHorizonYears)
			}

			rows := formulas.DepositSchedule(principal, rate/100, years)
			if !formulas.ScheduleFinite(rows) {
				return errors.New("principal and rate overflow the schedule")
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Principal: %s, rate: %s, years: %d\n\n",
				report.Money(principal), report.Percent(rate/100), years)
			if err := report.PrintSchedule(out, rows); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal income: %s\nFinal amount: %s\n",
				report.Money(formulas.TotalIncome(rows)), report.Money(rows[len(rows)-1].EndAmount))
			return nil
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", 3_000_000, "Initial deposit amount")
	cmd.Flags().Float64Var(&rate, "rate", 19, "Annual rate in percent")
	cmd.Flags().IntVar(&years, "years", 5, "Number of years")
	return cmd
}

// runSimulation runs the full comparison: simulation, default sweep, console
// tables, recommendation, text report and optional archive upload.
func (a *app) runSimulation(ctx context.Context, out io.Writer, scenario, reportPath string, threshold int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	params, err := loadScenario(scenario)
	if err != nil {
		return err
	}

	container, err := di.Wire(a.cfg, a.log)
	if err != nil {
		return err
	}
	defer container.Close()

	svc := container.ComparisonService
	outcome, err := svc.Simulate(ctx, params)
	if err != nil {
		return err
	}

	sweep, err := svc.Analyze(ctx, params, nil)
	if err != nil {
		return err
	}

	if threshold < 1 {
		threshold = svc.Threshold()
	}
	rec := svc.Recommend(outcome.BreakEvenYear, threshold)

	if err := report.PrintYears(out, outcome.Years); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, outcome.Message)
	fmt.Fprintln(out)
	if err := report.PrintSensitivity(out, sweep); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Recommendation: %s\n", rec)

	var buf bytes.Buffer
	err = report.WriteText(&buf, report.Report{
		GeneratedAt:    time.Now(),
		Params:         params,
		Result:         outcome.Result(),
		Recommendation: rec,
		ThresholdYears: threshold,
		Sensitivity:    &sweep,
	})
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if reportPath == "" {
		reportPath = a.cfg.ReportPath
	}
	if err := os.MkdirAll(filepath.Dir(reportPath), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(reportPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(out, "Report written to %s\n", reportPath)

	if container.Archiver != nil {
		key, err := container.Archiver.Archive(ctx, reportPath, buf.Bytes())
		if err != nil {
			// The local report is already written
			a.log.Error().Err(err).Msg("Failed to archive report")
		} else {
			fmt.Fprintf(out, "Report archived as %s\n", key)
		}
	}

	a.log.Debug().
		Str("run_id", outcome.RunID).
		Bool("cached", outcome.Cached).
		Msg("Run completed")

	return nil
}

func loadScenario(path string) (simulation.Parameters, error) {
	if path == "" {
		return simulation.DefaultParameters(), nil
	}
	return simulation.LoadParameters(path)
}

func printSummary(out io.Writer, s sensitivity.Summary) {
	fmt.Fprintf(out, "\n%d of %d sampled rates reach break-even", s.Reached, s.Samples)
	if s.MinRateReached != nil {
		fmt.Fprintf(out, " (from %s", report.Percent(*s.MinRateReached))
		if s.EarliestYear != nil && s.LatestYear != nil {
			fmt.Fprintf(out, ", years %d-%d", *s.EarliestYear, *s.LatestYear)
		}
		fmt.Fprint(out, ")")
	}
	fmt.Fprintln(out)
}
