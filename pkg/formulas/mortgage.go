package formulas

import "math"

// MonthlyPayment calculates the fixed monthly payment of an annuity loan.
//
// Formula: payment = P * m * (1+m)^n / ((1+m)^n - 1), with m = annualRate / 12
//
// A zero annual rate degenerates the denominator, so the payment falls back to
// straight-line repayment (P / n). The same fallback covers the pathological
// negative rates where (1+m)^n == 1. When (1+m)^n overflows, the growth ratio
// is 1 and the payment is the interest alone (P * m). termMonths below 1 returns 0.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths < 1 {
		return 0
	}

	n := float64(termMonths)
	if annualRate == 0 {
		return principal / n
	}

	monthlyRate := annualRate / 12
	growth := math.Pow(1+monthlyRate, n)
	if math.IsInf(growth, 0) {
		return principal * monthlyRate
	}
	denominator := growth - 1
	if denominator == 0 {
		return principal / n
	}

	return principal * monthlyRate * growth / denominator
}

// RemainingBalance estimates the outstanding loan after monthsElapsed payments.
//
// This is a straight-line estimate: every payment is subtracted in full from
// the principal, interest included, and the result is floored at zero. It is
// NOT an amortization schedule; the simulator's break-even year depends on
// this exact behaviour.
func RemainingBalance(principal, paymentPerMonth float64, monthsElapsed, termMonths int) float64 {
	paid := min(monthsElapsed, termMonths)
	if paid < 0 {
		paid = 0
	}
	return math.Max(principal-paymentPerMonth*float64(paid), 0)
}
