package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"MarketForecast/internal/metrics"
	"MarketForecast/internal/model"
	"MarketForecast/internal/store"
)

// State is the lifecycle stage of a Loader.
type State int

const (
	StateNotLoaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotLoaded:
		return "not loaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Loader owns the price history of one market. It moves from NotLoaded
// through Loading to Loaded (or Failed) and refuses to hand out a series
// before it is Loaded.
type Loader struct {
	Fetcher Fetcher
	Store   store.PriceStore
	Symbol  string
	Days    int

	log zerolog.Logger
	now func() time.Time

	mu     sync.RWMutex
	state  State
	series *model.PriceSeries
	err    error
}

// NewLoader creates a Loader. days limits the history to the most recent
// points; zero keeps everything the fetcher returns.
func NewLoader(fetcher Fetcher, ps store.PriceStore, symbol string, days int, log zerolog.Logger) *Loader {
	if ps == nil {
		ps = store.NewNoopStore()
	}
	return &Loader{
		Fetcher: fetcher,
		Store:   ps,
		Symbol:  symbol,
		Days:    days,
		log:     log.With().Str("component", "loader").Str("symbol", symbol).Logger(),
		now:     time.Now,
	}
}

// State reports the current lifecycle stage.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Start loads in the background. Series reports ErrDataNotReady until it finishes.
func (l *Loader) Start(ctx context.Context) {
	l.begin()
	go func() {
		if err := l.load(ctx); err != nil {
			l.log.Error().Err(err).Msg("background load failed")
		}
	}()
}

// Load fetches the history synchronously. A series that was already loaded
// stays available while a reload is in flight and if the reload fails.
func (l *Loader) Load(ctx context.Context) error {
	l.begin()
	return l.load(ctx)
}

func (l *Loader) begin() {
	l.mu.Lock()
	if l.state != StateLoaded {
		l.state = StateLoading
	}
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		l.finish(nil, err)
		return err
	}

	bars, err := l.Fetcher.FetchDailyBars(l.Symbol, l.Days)
	if err == nil && len(bars) == 0 {
		err = fmt.Errorf("%s returned no prices", l.Fetcher.Name())
	}
	if err != nil {
		err = fmt.Errorf("fetch %s from %s: %w", l.Symbol, l.Fetcher.Name(), err)
		cached, cacheErr := l.Store.LoadSeries(l.Symbol)
		if cacheErr != nil {
			if !errors.Is(cacheErr, store.ErrNotCached) {
				l.log.Warn().Err(cacheErr).Msg("read cached prices")
			}
			l.finish(nil, err)
			return err
		}
		l.log.Warn().Err(err).Int("points", cached.Len()).Time("fetched_at", cached.FetchedAt).
			Msg("fetch failed, using cached prices")
		l.finish(cached, nil)
		return nil
	}

	series := &model.PriceSeries{
		Symbol:    l.Symbol,
		Source:    l.Fetcher.Name(),
		Bars:      bars,
		FetchedAt: l.now(),
	}
	if err := l.Store.SaveSeries(series); err != nil {
		l.log.Warn().Err(err).Msg("cache prices")
	}
	l.log.Info().Str("source", series.Source).Int("points", series.Len()).Msg("prices loaded")
	l.finish(series, nil)
	return nil
}

func (l *Loader) finish(series *model.PriceSeries, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if series != nil {
		l.series = series
		l.state = StateLoaded
		l.err = nil
		metrics.SeriesPoints.WithLabelValues(l.Symbol).Set(float64(series.Len()))
		return
	}
	l.err = err
	if l.series == nil {
		l.state = StateFailed
	}
}

// Series returns the loaded history. It fails with ErrDataNotReady until the
// loader is Loaded, and with ErrInsufficientData if fewer than 2 prices arrived.
func (l *Loader) Series() (*model.PriceSeries, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != StateLoaded || l.series == nil {
		if l.err != nil {
			return nil, fmt.Errorf("%w (%s): %v", model.ErrDataNotReady, l.state, l.err)
		}
		return nil, fmt.Errorf("%w (%s)", model.ErrDataNotReady, l.state)
	}
	if l.series.Len() < 2 {
		return nil, fmt.Errorf("%w: %s has %d price points", model.ErrInsufficientData, l.Symbol, l.series.Len())
	}
	return l.series, nil
}

// LastError returns the error of the most recent failed load, if any.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}
