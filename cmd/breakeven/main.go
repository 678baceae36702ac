// Package main is the entry point of the breakeven command.
//
// breakeven compares two uses of the same capital over a fixed horizon: an
// annually compounding deposit, or the down payment on a mortgaged rental
// property. It finds the first year in which the deposit catches up with the
// property equity, sweeps that year over a range of deposit rates, and turns
// the result into a recommendation.
//
// Commands:
//   - run: simulate one scenario, print tables, write the text report
//   - sensitivity: sweep the deposit rate for a scenario
//   - deposit: print a deposit growth table
//   - serve: start the HTTP API with background jobs
package main

import (
	"os"

	"github.com/aristath/breakeven/internal/config"
	"github.com/aristath/breakeven/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every command needs after the root pre-run
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "breakeven",
		Short:         "Deposit vs. mortgaged property break-even simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = a.logLevel
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{
				Level:  level,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			})
			logger.SetGlobalLogger(a.log)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd(a))
	rootCmd.AddCommand(sensitivityCmd(a))
	rootCmd.AddCommand(depositCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}
