package forecast

import (
	"fmt"

	"MarketForecast/internal/calculator"
	"MarketForecast/internal/model"
)

// Trend band around S0. Both bounds are strict: a mean exactly on a bound is Stable.
const (
	UpwardFactor   = 1.01
	DownwardFactor = 0.99
)

// ClassifyTrend compares the raw mean terminal price against the ±1% band around s0.
func ClassifyTrend(meanFinal, s0 float64) model.Trend {
	switch {
	case meanFinal > s0*UpwardFactor:
		return model.TrendUpward
	case meanFinal < s0*DownwardFactor:
		return model.TrendDownward
	default:
		return model.TrendStable
	}
}

// Summarize reduces the terminal prices of every path to max/min/mean and a trend.
func Summarize(matrix model.PathMatrix, s0 float64) (model.SimulationSummary, error) {
	finals := matrix.FinalPrices()
	if len(finals) == 0 {
		return model.SimulationSummary{}, fmt.Errorf("%w: path matrix has no terminal prices", model.ErrInvalidParameter)
	}
	if !(s0 > 0) {
		return model.SimulationSummary{}, fmt.Errorf("%w: initial price must be positive, got %v", model.ErrInvalidParameter, s0)
	}

	low, high := calculator.MinMax(finals)
	mean := calculator.Mean(finals)
	// Rounding on near-identical values can push the mean one ulp outside the range.
	if mean < low {
		mean = low
	}
	if mean > high {
		mean = high
	}

	return model.SimulationSummary{
		MaxFinal:  high,
		MinFinal:  low,
		MeanFinal: mean,
		Trend:     ClassifyTrend(mean, s0),
	}, nil
}
