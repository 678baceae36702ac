// Package report renders simulation results as console tables and text reports,
// and archives rendered reports to S3-compatible storage.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aristath/breakeven/internal/modules/recommendation"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/aristath/breakeven/pkg/formulas"
	"github.com/dustin/go-humanize"
)

const notReached = "-"

// Report is everything written to a text report
type Report struct {
	GeneratedAt    time.Time
	Params         simulation.Parameters
	Result         simulation.Result
	Recommendation recommendation.Recommendation
	ThresholdYears int
	// Sensitivity is optional
	Sensitivity *sensitivity.Result
}

// WriteText writes the break-even year and the recommendation, followed by
// the yearly capital table and, when present, the sensitivity table.
func WriteText(w io.Writer, r Report) error {
	breakEven := notReached
	if r.Result.BreakEvenYear != nil {
		breakEven = strconv.Itoa(*r.Result.BreakEvenYear)
	}

	header := []string{
		"Investment report",
		"Generated: " + r.GeneratedAt.UTC().Format(time.RFC3339),
		"",
		"Break-even year: " + breakEven,
		"Recommendation: " + r.Recommendation.String(),
		recommendation.BreakEvenMessage(r.Result.BreakEvenYear),
		fmt.Sprintf("Threshold: %d years, horizon: %d years, deposit rate: %s",
			r.ThresholdYears, r.Params.InvestmentHorizonYears, Percent(r.Params.DepositRate)),
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if err := PrintYears(w, r.Result.Years); err != nil {
		return err
	}

	if r.Sensitivity == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return PrintSensitivity(w, *r.Sensitivity)
}

// PrintYears writes the per-year capital table
func PrintYears(w io.Writer, years []simulation.YearRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tDeposit\tProperty equity\tRental cash flow\tMortgage expense\t")
	for _, y := range years {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			y.Year,
			Money(y.DepositBalance),
			Money(y.PropertyEquity),
			Money(y.RentalCashFlow),
			Money(y.MortgageExpense),
		)
	}
	return tw.Flush()
}

// PrintSensitivity writes the deposit rate vs break-even year table
func PrintSensitivity(w io.Writer, result sensitivity.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Deposit rate\tBreak-even year\t")
	for _, e := range result.Entries {
		year := notReached
		if e.BreakEvenYear != nil {
			year = strconv.Itoa(*e.BreakEvenYear)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", Percent(e.Rate), year)
	}
	return tw.Flush()
}

// PrintSchedule writes a deposit growth table
func PrintSchedule(w io.Writer, rows []formulas.DepositYear) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Year\tStart amount\tInterest\tEnd amount\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n",
			row.Year, Money(row.StartAmount), Money(row.Interest), Money(row.EndAmount))
	}
	return tw.Flush()
}

// Money formats an amount with thousands separators and two decimals
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Percent formats a decimal rate as a percentage
func Percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64) + "%"
}
