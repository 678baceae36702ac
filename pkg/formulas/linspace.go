package formulas

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced samples over [lo, hi], both ends included.
// A single sample returns lo.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	switch {
	case n < 1:
		return nil, fmt.Errorf("sample count must be at least 1, got %d", n)
	case n == 1:
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}
