package model

import (
	"fmt"
	"math"
	"time"
)

// Trend classifies where the mean terminal price landed relative to S0.
type Trend string

const (
	TrendUpward   Trend = "UPWARD"
	TrendDownward Trend = "DOWNWARD"
	TrendStable   Trend = "STABLE"
)

// Label returns the human-readable trend label.
func (t Trend) Label() string {
	switch t {
	case TrendUpward:
		return "📈 Upward"
	case TrendDownward:
		return "📉 Downward"
	default:
		return "↔️ Stable"
	}
}

// SimulationParams are the user-facing knobs of a forecast run, validated
// once at the boundary (CLI flags, config file, chat command).
type SimulationParams struct {
	HorizonDays int
	PathCount   int
	Confidence  int // percent, display only
}

// Validate checks the horizon and path count. Confidence never enters the
// computation and is checked separately by CheckConfidence.
func (p SimulationParams) Validate() error {
	if p.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon must be at least 1 day, got %d", ErrInvalidParameter, p.HorizonDays)
	}
	if p.PathCount < 1 {
		return fmt.Errorf("%w: path count must be at least 1, got %d", ErrInvalidParameter, p.PathCount)
	}
	return nil
}

// CheckConfidence checks that confidence is a percentage.
func (p SimulationParams) CheckConfidence() error {
	if p.Confidence < 1 || p.Confidence > 100 {
		return fmt.Errorf("%w: confidence must be within 1..100, got %d", ErrInvalidParameter, p.Confidence)
	}
	return nil
}

// SimulationLimits caps the size of a requested run. Zero disables a cap.
type SimulationLimits struct {
	MaxHorizonDays int
	MaxPaths       int
}

// DefaultLimits keeps a single run around 80 MB of path data.
var DefaultLimits = SimulationLimits{MaxHorizonDays: 1000, MaxPaths: 10000}

// Check rejects params above the caps.
func (l SimulationLimits) Check(p SimulationParams) error {
	if l.MaxHorizonDays > 0 && p.HorizonDays > l.MaxHorizonDays {
		return fmt.Errorf("%w: horizon %d exceeds the limit of %d days", ErrInvalidParameter, p.HorizonDays, l.MaxHorizonDays)
	}
	if l.MaxPaths > 0 && p.PathCount > l.MaxPaths {
		return fmt.Errorf("%w: path count %d exceeds the limit of %d", ErrInvalidParameter, p.PathCount, l.MaxPaths)
	}
	return nil
}

// SimulationRequest is the full input of one path simulation.
type SimulationRequest struct {
	S0          float64
	Mu          float64
	Sigma       float64
	HorizonDays int
	PathCount   int
}

// Validate checks the simulator preconditions.
func (r SimulationRequest) Validate() error {
	switch {
	case r.HorizonDays < 1:
		return fmt.Errorf("%w: horizon must be at least 1 day, got %d", ErrInvalidParameter, r.HorizonDays)
	case r.PathCount < 1:
		return fmt.Errorf("%w: path count must be at least 1, got %d", ErrInvalidParameter, r.PathCount)
	case !(r.S0 > 0) || math.IsInf(r.S0, 0):
		return fmt.Errorf("%w: initial price must be positive, got %v", ErrInvalidParameter, r.S0)
	case math.IsNaN(r.Mu) || math.IsInf(r.Mu, 0):
		return fmt.Errorf("%w: drift must be finite, got %v", ErrInvalidParameter, r.Mu)
	case !(r.Sigma >= 0) || math.IsInf(r.Sigma, 0):
		return fmt.Errorf("%w: volatility must be finite and non-negative, got %v", ErrInvalidParameter, r.Sigma)
	}
	return nil
}

// PathMatrix holds simulated prices, one row per path and one column per day.
// Column 0 of every row is S0.
type PathMatrix [][]float64

// Paths returns the number of rows.
func (m PathMatrix) Paths() int { return len(m) }

// Days returns the number of columns.
func (m PathMatrix) Days() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// FinalPrices returns the last value of every path.
func (m PathMatrix) FinalPrices() []float64 {
	finals := make([]float64, 0, len(m))
	for _, path := range m {
		if len(path) == 0 {
			continue
		}
		finals = append(finals, path[len(path)-1])
	}
	return finals
}

// Labels returns the x-axis labels used when plotting paths.
func (m PathMatrix) Labels() []string {
	labels := make([]string, m.Days())
	for i := range labels {
		labels[i] = fmt.Sprintf("Day %d", i+1)
	}
	return labels
}

// SimulationSummary reduces the terminal prices of a PathMatrix.
type SimulationSummary struct {
	MaxFinal  float64
	MinFinal  float64
	MeanFinal float64
	Trend     Trend
}

// Forecast is the complete output of one forecast run.
type Forecast struct {
	RunID      string
	Symbol     string
	S0         float64
	Estimate   Estimate
	Params     SimulationParams
	Paths      PathMatrix
	Summary    SimulationSummary
	Elapsed    time.Duration
	PriceCount int
}
