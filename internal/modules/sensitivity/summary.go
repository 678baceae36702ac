package sensitivity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a sweep for the console and the API
type Summary struct {
	Samples int `json:"samples"`
	Reached int `json:"reached"`
	// MinRateReached is the lowest sampled rate that produced a break-even year
	MinRateReached *float64 `json:"min_rate_reached,omitempty"`
	EarliestYear   *int     `json:"earliest_year,omitempty"`
	LatestYear     *int     `json:"latest_year,omitempty"`
	MeanYear       *float64 `json:"mean_year,omitempty"`
}

// Summarize counts the samples that reach break-even and describes the years
func Summarize(r Result) Summary {
	s := Summary{Samples: r.Len()}

	years := make([]float64, 0, r.Len())
	for _, e := range r.Entries {
		if e.BreakEvenYear == nil {
			continue
		}
		if s.MinRateReached == nil {
			rate := e.Rate
			s.MinRateReached = &rate
		}
		years = append(years, float64(*e.BreakEvenYear))
	}

	s.Reached = len(years)
	if s.Reached == 0 {
		return s
	}

	earliest := int(floats.Min(years))
	latest := int(floats.Max(years))
	mean := stat.Mean(years, nil)
	s.EarliestYear = &earliest
	s.LatestYear = &latest
	s.MeanYear = &mean

	return s
}
