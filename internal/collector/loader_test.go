package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"MarketForecast/internal/model"
	"MarketForecast/internal/store"
)

// memStore is an in-memory PriceStore.
type memStore struct {
	mu     sync.Mutex
	series map[string]*model.PriceSeries
}

func newMemStore() *memStore { return &memStore{series: map[string]*model.PriceSeries{}} }

func (m *memStore) SaveSeries(s *model.PriceSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[s.Symbol] = s
	return nil
}

func (m *memStore) LoadSeries(symbol string) (*model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.series[symbol]; ok {
		return s, nil
	}
	return nil, store.ErrNotCached
}

func (m *memStore) Close() error { return nil }

// gatedFetcher blocks until release is closed, then returns bars or err.
type gatedFetcher struct {
	release chan struct{}
	bars    []model.OHLCV
	err     error
}

func (g *gatedFetcher) Name() string { return "gated" }

func (g *gatedFetcher) FetchDailyBars(_ string, _ int) ([]model.OHLCV, error) {
	if g.release != nil {
		<-g.release
	}
	return g.bars, g.err
}

func closes(prices ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(prices))
	for i, p := range prices {
		bars[i] = model.OHLCV{Close: p}
	}
	return bars
}

func waitForState(t *testing.T, l *Loader, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for state %s, still %s", want, l.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoader_NotReadyUntilLoaded(t *testing.T) {
	f := &gatedFetcher{release: make(chan struct{}), bars: closes(60, 61, 62)}
	l := NewLoader(f, nil, "GOLD", 0, zerolog.Nop())

	if l.State() != StateNotLoaded {
		t.Fatalf("expected NotLoaded, got %s", l.State())
	}
	if _, err := l.Series(); !errors.Is(err, model.ErrDataNotReady) {
		t.Fatalf("expected ErrDataNotReady before start, got %v", err)
	}

	l.Start(context.Background())
	if l.State() != StateLoading {
		t.Fatalf("expected Loading after start, got %s", l.State())
	}
	if _, err := l.Series(); !errors.Is(err, model.ErrDataNotReady) {
		t.Fatalf("expected ErrDataNotReady while loading, got %v", err)
	}

	close(f.release)
	waitForState(t, l, StateLoaded)

	s, err := l.Series()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 || s.Last() != 62 || s.Source != "gated" {
		t.Errorf("unexpected series %+v", s)
	}
}

func TestLoader_InsufficientData(t *testing.T) {
	l := NewLoader(&gatedFetcher{bars: closes(60)}, nil, "GOLD", 0, zerolog.Nop())
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if _, err := l.Series(); !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestLoader_FailureWithoutCache(t *testing.T) {
	l := NewLoader(&gatedFetcher{err: errors.New("offline")}, newMemStore(), "GOLD", 0, zerolog.Nop())
	if err := l.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if l.State() != StateFailed {
		t.Errorf("expected Failed, got %s", l.State())
	}
	if _, err := l.Series(); !errors.Is(err, model.ErrDataNotReady) {
		t.Errorf("expected ErrDataNotReady after failure, got %v", err)
	}
}

func TestLoader_EmptyFetchFails(t *testing.T) {
	l := NewLoader(&gatedFetcher{}, nil, "GOLD", 0, zerolog.Nop())
	if err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error for empty fetch")
	}
	if l.State() != StateFailed {
		t.Errorf("expected Failed, got %s", l.State())
	}
}

func TestLoader_FallsBackToCache(t *testing.T) {
	ms := newMemStore()
	ok := NewLoader(&gatedFetcher{bars: closes(60, 61, 62)}, ms, "GOLD", 0, zerolog.Nop())
	if err := ok.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	offline := NewLoader(&gatedFetcher{err: errors.New("offline")}, ms, "GOLD", 0, zerolog.Nop())
	if err := offline.Load(context.Background()); err != nil {
		t.Fatalf("expected cached fallback, got %v", err)
	}
	s, err := offline.Series()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 || s.Last() != 62 {
		t.Errorf("expected cached series, got %v", s.Closes())
	}
}

func TestLoader_ReloadFailureKeepsSeries(t *testing.T) {
	f := &gatedFetcher{bars: closes(60, 61)}
	l := NewLoader(f, nil, "GOLD", 0, zerolog.Nop())
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.bars, f.err = nil, errors.New("offline")
	if err := l.Load(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if l.State() != StateLoaded {
		t.Errorf("expected Loaded after failed reload, got %s", l.State())
	}
	if s, err := l.Series(); err != nil || s.Len() != 2 {
		t.Errorf("expected previous series, got %v, %v", s, err)
	}
	if l.LastError() == nil {
		t.Error("expected last error to be recorded")
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(&gatedFetcher{bars: closes(1, 2)}, nil, "GOLD", 0, zerolog.Nop())
	if err := l.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
