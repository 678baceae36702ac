// Package simulation compares a compounding deposit against a mortgaged,
// rented property over a fixed horizon and finds the break-even year.
package simulation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Upper bounds are service limits on request size, not model constraints
const (
	MaxHorizonYears   = 200
	MaxTermMonths     = 1200
	MinTermMonths     = 1
	MinHorizonYears   = 1
	DefaultHorizon    = 10
	DefaultTermMonths = 10 * 12
)

// Parameters is the immutable input of one simulation run.
// Rates are decimal fractions (0.19 = 19%). Amounts are in a single currency.
type Parameters struct {
	InitialInvestment      float64 `json:"initial_investment" yaml:"initial_investment" msgpack:"initial_investment"`
	DepositRate            float64 `json:"deposit_rate" yaml:"deposit_rate" msgpack:"deposit_rate"`
	MortgageRate           float64 `json:"mortgage_rate" yaml:"mortgage_rate" msgpack:"mortgage_rate"`
	RentInitial            float64 `json:"rent_initial" yaml:"rent_initial" msgpack:"rent_initial"`
	RentGrowthRate         float64 `json:"rent_growth_rate" yaml:"rent_growth_rate" msgpack:"rent_growth_rate"`
	PropertyPrice          float64 `json:"property_price" yaml:"property_price" msgpack:"property_price"`
	DownPayment            float64 `json:"down_payment" yaml:"down_payment" msgpack:"down_payment"`
	LoanAmount             float64 `json:"loan_amount" yaml:"loan_amount" msgpack:"loan_amount"`
	MortgageTermMonths     int     `json:"mortgage_term_months" yaml:"mortgage_term_months" msgpack:"mortgage_term_months"`
	InflationRate          float64 `json:"inflation_rate" yaml:"inflation_rate" msgpack:"inflation_rate"` // carried, not used by the simulator
	PropertyGrowthRate     float64 `json:"property_growth_rate" yaml:"property_growth_rate" msgpack:"property_growth_rate"`
	TaxBenefitRate         float64 `json:"tax_benefit_rate" yaml:"tax_benefit_rate" msgpack:"tax_benefit_rate"`
	InvestmentHorizonYears int     `json:"investment_horizon_years" yaml:"investment_horizon_years" msgpack:"investment_horizon_years"`
}

// DefaultParameters returns the reference scenario: 3M either deposited at 19%
// or used as the down payment on an 8M property with a 5M, 10-year loan at 6%.
func DefaultParameters() Parameters {
	return Parameters{
		InitialInvestment:      3_000_000,
		DepositRate:            0.19,
		MortgageRate:           0.06,
		RentInitial:            40_000,
		RentGrowthRate:         0.08,
		PropertyPrice:          8_000_000,
		DownPayment:            3_000_000,
		LoanAmount:             5_000_000,
		MortgageTermMonths:     DefaultTermMonths,
		InflationRate:          0.07,
		PropertyGrowthRate:     0.08,
		TaxBenefitRate:         0.13,
		InvestmentHorizonYears: DefaultHorizon,
	}
}

// WithDepositRate returns a copy with only the deposit rate replaced
func (p Parameters) WithDepositRate(rate float64) Parameters {
	p.DepositRate = rate
	return p
}

// Validate checks the parameters once, before any simulation work starts.
// Negative rates are a legitimate modeling choice and pass; NaN and ±Inf do not.
func (p Parameters) Validate() error {
	if p.InvestmentHorizonYears < MinHorizonYears {
		return invalid("investment_horizon_years", p.InvestmentHorizonYears,
			fmt.Sprintf("must be at least %d", MinHorizonYears))
	}
	if p.InvestmentHorizonYears > MaxHorizonYears {
		return invalid("investment_horizon_years", p.InvestmentHorizonYears,
			fmt.Sprintf("exceeds the service limit of %d years", MaxHorizonYears))
	}
	if p.MortgageTermMonths < MinTermMonths {
		return invalid("mortgage_term_months", p.MortgageTermMonths,
			fmt.Sprintf("must be at least %d", MinTermMonths))
	}
	if p.MortgageTermMonths > MaxTermMonths {
		return invalid("mortgage_term_months", p.MortgageTermMonths,
			fmt.Sprintf("exceeds the service limit of %d months", MaxTermMonths))
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"initial_investment", p.InitialInvestment},
		{"rent_initial", p.RentInitial},
		{"property_price", p.PropertyPrice},
		{"down_payment", p.DownPayment},
		{"loan_amount", p.LoanAmount},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return invalid(a.field, a.value, "must be a finite amount")
		}
		if a.value < 0 {
			return invalid(a.field, a.value, "must not be negative")
		}
	}

	rates := []struct {
		field string
		value float64
	}{
		{"deposit_rate", p.DepositRate},
		{"mortgage_rate", p.MortgageRate},
		{"rent_growth_rate", p.RentGrowthRate},
		{"inflation_rate", p.InflationRate},
		{"property_growth_rate", p.PropertyGrowthRate},
		{"tax_benefit_rate", p.TaxBenefitRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return invalid(r.field, r.value, "must be a finite rate")
		}
	}

	return nil
}

// Hash returns a stable 64-bit digest of every field, used as a cache key.
// Floats are written in their shortest round-trip form so equal values hash equally.
func (p Parameters) Hash() uint64 {
	d := xxhash.New()
	for _, f := range []float64{
		p.InitialInvestment,
		p.DepositRate,
		p.MortgageRate,
		p.RentInitial,
		p.RentGrowthRate,
		p.PropertyPrice,
		p.DownPayment,
		p.LoanAmount,
		p.InflationRate,
		p.PropertyGrowthRate,
		p.TaxBenefitRate,
	} {
		_, _ = d.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		_, _ = d.WriteString("|")
	}
	_, _ = d.WriteString(strconv.Itoa(p.MortgageTermMonths))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.Itoa(p.InvestmentHorizonYears))
	return d.Sum64()
}

// Key formats Hash as a fixed-width hex string
func (p Parameters) Key() string {
	return fmt.Sprintf("%016x", p.Hash())
}
