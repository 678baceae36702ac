package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		expected  float64
		tolerance float64
	}{
		{"reference loan", 5_000_000, 0.06, 120, 55_510.25, 0.01},
		{"one year at 12%", 10_000, 0.12, 12, 888.49, 0.01},
		{"single month", 1000, 0.12, 1, 1010, 1e-9},
		{"zero rate falls back to straight line", 1200, 0, 12, 100, 0},
		{"zero principal", 0, 0.06, 120, 0, 0},
		{"no term", 1000, 0.06, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MonthlyPayment(tt.principal, tt.rate, tt.months), tt.tolerance)
		})
	}
}

func TestMonthlyPayment_ZeroRateIsExact(t *testing.T) {
	for _, p := range []float64{1, 1000, 5_000_000, 7_777_777.77} {
		for _, n := range []int{1, 7, 120, 360} {
			assert.Equal(t, p/float64(n), MonthlyPayment(p, 0, n))
		}
	}
}

func TestMonthlyPayment_DegenerateNegativeRate(t *testing.T) {
	// m = -2 makes (1+m)^n == 1 for even n.
	payment := MonthlyPayment(1200, -24, 12)
	assert.False(t, math.IsNaN(payment))
	assert.False(t, math.IsInf(payment, 0))
	assert.Equal(t, 100.0, payment)
}

func TestMonthlyPayment_OverflowingGrowthStaysFinite(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		term int
	}{
		{"huge rate long term", 1e6, 1200},
		{"large rate", 1000, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(5_000_000, tt.rate, tt.term)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "payment %v", got)
			assert.InDelta(t, 5_000_000*tt.rate/12, got, 1e-9*got)
		})
	}
}

func TestMonthlyPayment_CoversPrincipal(t *testing.T) {
	payment := MonthlyPayment(5_000_000, 0.06, 120)
	assert.Greater(t, payment*120, 5_000_000.0)
}

func TestRemainingBalance(t *testing.T) {
	payment := MonthlyPayment(5_000_000, 0.06, 120)

	tests := []struct {
		name     string
		elapsed  int
		term     int
		expected float64
	}{
		{"nothing paid", 0, 120, 5_000_000},
		{"one year", 12, 120, 5_000_000 - payment*12},
		{"full term", 120, 120, math.Max(5_000_000-payment*120, 0)},
		{"past term is capped", 240, 120, math.Max(5_000_000-payment*120, 0)},
		{"negative elapsed treated as zero", -5, 120, 5_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RemainingBalance(5_000_000, payment, tt.elapsed, tt.term), 1e-6)
		})
	}
}

func TestRemainingBalance_Properties(t *testing.T) {
	for _, p := range []float64{0, 1000, 5_000_000} {
		for _, pay := range []float64{0, 10, 55_510.25} {
			for _, term := range []int{1, 60, 120} {
				assert.Equal(t, p, RemainingBalance(p, pay, 0, term))
				assert.Equal(t, math.Max(p-pay*float64(term), 0), RemainingBalance(p, pay, term, term))
			}
		}
	}
}

func TestRemainingBalance_NeverNegative(t *testing.T) {
	for months := 0; months <= 240; months += 6 {
		assert.GreaterOrEqual(t, RemainingBalance(1000, 100, months, 120), 0.0)
	}
}
