package simulation

import (
	"fmt"
	"math"

	"github.com/aristath/breakeven/pkg/formulas"
)

// YearRecord is the state of both strategies at the end of one simulated year
type YearRecord struct {
	Year            int     `json:"year" msgpack:"year"`
	DepositBalance  float64 `json:"deposit_balance" msgpack:"deposit_balance"`
	PropertyEquity  float64 `json:"property_equity" msgpack:"property_equity"`
	RentalCashFlow  float64 `json:"rental_cash_flow" msgpack:"rental_cash_flow"`
	MortgageExpense float64 `json:"mortgage_expense" msgpack:"mortgage_expense"`
}

// DepositAhead reports whether the deposit has caught up with the property
func (r YearRecord) DepositAhead() bool {
	return r.DepositBalance >= r.PropertyEquity
}

// Result is the output of one run. Years is ordered 1..horizon.
// BreakEvenYear is nil when the deposit never catches up within the horizon.
type Result struct {
	Years         []YearRecord `json:"years" msgpack:"years"`
	BreakEvenYear *int         `json:"break_even_year" msgpack:"break_even_year"`
}

// HasBreakEven reports whether a crossing was found
func (r Result) HasBreakEven() bool {
	return r.BreakEvenYear != nil
}

// Final returns the last simulated year
func (r Result) Final() YearRecord {
	if len(r.Years) == 0 {
		return YearRecord{}
	}
	return r.Years[len(r.Years)-1]
}

// CheckFinite reports the first amount that overflowed float64 or became NaN.
// Finite but extreme rates pass Validate and can still overflow over the horizon.
func (r Result) CheckFinite() error {
	for _, y := range r.Years {
		columns := []struct {
			field string
			value float64
		}{
			{"deposit_balance", y.DepositBalance},
			{"property_equity", y.PropertyEquity},
			{"rental_cash_flow", y.RentalCashFlow},
			{"mortgage_expense", y.MortgageExpense},
		}
		for _, c := range columns {
			if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
				return invalid(c.field, c.value,
					fmt.Sprintf("is out of range in year %d, the rates or amounts are too large", y.Year))
			}
		}
	}
	return nil
}

// Simulate validates the parameters and runs the simulation.
// On a validation error, or when an amount overflows, no partial result is returned.
func Simulate(p Parameters) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	result := Run(p)
	if err := result.CheckFinite(); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Run simulates already-validated parameters and cannot fail. Extreme rates
// may yield non-finite amounts; Simulate rejects those.
//
// The mortgage payment is fixed for the whole horizon. Every year is recorded,
// and the first year with deposit >= equity is kept as the break-even year;
// later crossings do not replace it.
func Run(p Parameters) Result {
	monthlyPayment := formulas.MonthlyPayment(p.LoanAmount, p.MortgageRate, p.MortgageTermMonths)
	yearlyPayment := monthlyPayment * 12
	taxBenefit := yearlyPayment * p.TaxBenefitRate

	result := Result{
		Years: make([]YearRecord, 0, p.InvestmentHorizonYears),
	}

	for year := 1; year <= p.InvestmentHorizonYears; year++ {
		deposit := formulas.CompoundGrowth(p.InitialInvestment, p.DepositRate, year)
		propertyValue := formulas.CompoundGrowth(p.PropertyPrice, p.PropertyGrowthRate, year)

		monthlyRent := formulas.CompoundGrowth(p.RentInitial, p.RentGrowthRate, year)
		yearlyRentalIncome := monthlyRent * 12

		remainingLoan := formulas.RemainingBalance(p.LoanAmount, monthlyPayment, year*12, p.MortgageTermMonths)
		equity := p.DownPayment + (propertyValue - remainingLoan)

		record := YearRecord{
			Year:            year,
			DepositBalance:  deposit,
			PropertyEquity:  equity,
			RentalCashFlow:  yearlyRentalIncome - yearlyPayment + taxBenefit,
			MortgageExpense: yearlyPayment,
		}
		result.Years = append(result.Years, record)

		if result.BreakEvenYear == nil && record.DepositAhead() {
			y := year
			result.BreakEvenYear = &y
		}
	}

	return result
}
