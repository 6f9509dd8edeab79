package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"MarketForecast/internal/calculator"
	"MarketForecast/internal/metrics"
	"MarketForecast/internal/model"
	"MarketForecast/internal/simulator"
)

// Engine runs the estimate → simulate → summarize pipeline. Every run gets
// a fresh random source, so an Engine is safe to share between goroutines.
type Engine struct {
	log       zerolog.Logger
	newSource func() simulator.Source
}

// NewEngine creates an Engine. A zero seed draws non-reproducible paths;
// any other seed makes every run replay the same draws.
func NewEngine(log zerolog.Logger, seed int64) *Engine {
	newSource := func() simulator.Source { return simulator.NewRandomSource() }
	if seed != 0 {
		newSource = func() simulator.Source { return simulator.NewSource(seed) }
	}
	return NewEngineWithSource(log, newSource)
}

// NewEngineWithSource creates an Engine drawing shocks from sources built by newSource.
func NewEngineWithSource(log zerolog.Logger, newSource func() simulator.Source) *Engine {
	return &Engine{log: log.With().Str("component", "forecast").Logger(), newSource: newSource}
}

// Estimate computes drift and volatility of the series.
func (e *Engine) Estimate(series *model.PriceSeries) (model.Estimate, error) {
	if series == nil {
		return model.Estimate{}, model.ErrDataNotReady
	}
	est, err := calculator.EstimateDriftVolatility(series.Closes())
	if err != nil {
		return model.Estimate{}, fmt.Errorf("estimate %s: %w", series.Symbol, err)
	}
	return est, nil
}

// Run forecasts the series forward from its last price. Nothing is returned on failure.
func (e *Engine) Run(series *model.PriceSeries, params model.SimulationParams) (*model.Forecast, error) {
	start := time.Now()
	fc, err := e.run(series, params)
	if err != nil {
		metrics.ForecastFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	fc.Elapsed = time.Since(start)
	metrics.SimulationSeconds.Observe(fc.Elapsed.Seconds())
	metrics.ForecastRuns.WithLabelValues(fc.Symbol, string(fc.Summary.Trend)).Inc()

	e.log.Info().
		Str("run_id", fc.RunID).
		Str("symbol", fc.Symbol).
		Float64("s0", fc.S0).
		Float64("mu", fc.Estimate.Mu).
		Float64("sigma", fc.Estimate.Sigma).
		Int("days", params.HorizonDays).
		Int("paths", params.PathCount).
		Float64("mean_final", fc.Summary.MeanFinal).
		Str("trend", string(fc.Summary.Trend)).
		Dur("elapsed", fc.Elapsed).
		Msg("forecast complete")
	return fc, nil
}

func (e *Engine) run(series *model.PriceSeries, params model.SimulationParams) (*model.Forecast, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	est, err := e.Estimate(series)
	if err != nil {
		return nil, err
	}

	s0 := series.Last()
	paths, err := simulator.Simulate(model.SimulationRequest{
		S0:          s0,
		Mu:          est.Mu,
		Sigma:       est.Sigma,
		HorizonDays: params.HorizonDays,
		PathCount:   params.PathCount,
	}, e.newSource())
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", series.Symbol, err)
	}

	summary, err := Summarize(paths, s0)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", series.Symbol, err)
	}

	return &model.Forecast{
		RunID:      uuid.NewString(),
		Symbol:     series.Symbol,
		S0:         s0,
		Estimate:   est,
		Params:     params,
		Paths:      paths,
		Summary:    summary,
		PriceCount: series.Len(),
	}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrDataNotReady):
		return "not_ready"
	case errors.Is(err, model.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, model.ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "other"
	}
}
