package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ForecastRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forecast_runs_total", Help: "Completed forecast runs by trend"},
		[]string{"symbol", "trend"},
	)
	ForecastFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "forecast_failures_total", Help: "Forecast runs rejected before simulation"},
		[]string{"reason"},
	)
	SimulationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_simulation_seconds",
			Help:    "Wall time of estimate, simulate and summarize",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)
	SeriesPoints = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "forecast_series_points", Help: "Price points in the last loaded series"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(ForecastRuns, ForecastFailures, SimulationSeconds, SeriesPoints)
}

// Serve binds addr and exposes /metrics in the background. Bind errors are
// returned; later server errors are logged.
func Serve(addr string, log zerolog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("metrics server stopped")
		}
	}()
	return srv, nil
}
