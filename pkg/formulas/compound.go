// Package formulas holds the closed-form financial formulas shared by the
// simulator, the sensitivity sweep and the deposit schedule.
package formulas

import "math"

// CompoundGrowth returns the balance after compounding principal at a fixed
// annual rate for the given number of periods.
//
// Formula: amount = principal * (1 + annualRate) ^ periods
//
// Zero periods returns the principal unchanged. Rates at or below -1 are not
// rejected; they deterministically produce zero or negative amounts.
func CompoundGrowth(principal, annualRate float64, periods int) float64 {
	if periods == 0 {
		return principal
	}
	return principal * math.Pow(1+annualRate, float64(periods))
}

// DepositYear is one row of a deposit growth table
type DepositYear struct {
	Year        int     `json:"year"`
	StartAmount float64 `json:"start_amount"`
	Interest    float64 `json:"interest"`
	EndAmount   float64 `json:"end_amount"`
}

// DepositSchedule builds the year-by-year growth table of a deposit that
// capitalizes interest once a year.
//
// Args:
//
//	principal: Initial deposit amount
//	annualRate: Annual rate as decimal (e.g., 0.19 = 19%)
//	years: Number of years to tabulate
//
// Returns:
//
//	One row per year, ascending. Empty when years < 1.
func DepositSchedule(principal, annualRate float64, years int) []DepositYear {
	if years < 1 {
		return []DepositYear{}
	}

	rows := make([]DepositYear, 0, years)
	current := principal
	for year := 1; year <= years; year++ {
		interest := current * annualRate
		end := current + interest

		rows = append(rows, DepositYear{
			Year:        year,
			StartAmount: current,
			Interest:    interest,
			EndAmount:   end,
		})
		current = end
	}

	return rows
}

// ScheduleFinite reports whether every amount of the schedule is a finite number
func ScheduleFinite(rows []DepositYear) bool {
	for _, r := range rows {
		for _, v := range []float64{r.StartAmount, r.Interest, r.EndAmount} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// TotalIncome returns the interest earned over a schedule
func TotalIncome(rows []DepositYear) float64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].EndAmount - rows[0].StartAmount
}
