// Package recommendation turns a break-even year into advice.
package recommendation

import "fmt"

// Recommendation is one of three fixed outcomes
type Recommendation string

const (
	FavorRealEstate     Recommendation = "favor real estate purchase"
	FavorDeposit        Recommendation = "favor deposit"
	FurtherRiskAnalysis Recommendation = "requires further risk analysis"
)

// DefaultThresholdYears is the break-even year that separates the two strategies
const DefaultThresholdYears = 5

// Recommend classifies a break-even year against the threshold.
//
//   - year < threshold: the deposit overtakes early, favor real estate purchase
//   - year > threshold or no break-even: favor deposit
//   - year == threshold: requires further risk analysis
//
// A threshold below 1 is replaced by DefaultThresholdYears.
func Recommend(breakEvenYear *int, thresholdYears int) Recommendation {
	if thresholdYears < 1 {
		thresholdYears = DefaultThresholdYears
	}

	switch {
	case breakEvenYear == nil:
		return FavorDeposit
	case *breakEvenYear < thresholdYears:
		return FavorRealEstate
	case *breakEvenYear > thresholdYears:
		return FavorDeposit
	default:
		return FurtherRiskAnalysis
	}
}

// BreakEvenMessage renders the break-even year for console and reports
func BreakEvenMessage(breakEvenYear *int) string {
	if breakEvenYear == nil {
		return "Break-even is not reached within the horizon."
	}
	return fmt.Sprintf("Break-even reached after %d years.", *breakEvenYear)
}

// String implements fmt.Stringer
func (r Recommendation) String() string {
	return string(r)
}
