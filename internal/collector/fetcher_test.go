package collector

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStaticFetcher(t *testing.T) {
	f := NewStaticFetcher(map[string][]float64{"GOLD": {1, 2, 3, 4, 5}})
	bars, err := f.FetchDailyBars("gold", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 || bars[0].Close != 3 || bars[2].Close != 5 {
		t.Errorf("expected last 3 prices [3 4 5], got %+v", bars)
	}
	if _, err := f.FetchDailyBars("PLATINUM", 0); err == nil || !strings.Contains(err.Error(), "GOLD") {
		t.Errorf("expected unknown market error listing markets, got %v", err)
	}
	if names := NewStaticFetcher(nil).MarketNames(); len(names) != 2 || names[0] != "GOLD" {
		t.Errorf("unexpected default markets %v", names)
	}
}

func TestCSVFetcher_FiltersNonNumeric(t *testing.T) {
	f := NewCSVFetcher(filepath.Join("testdata", "gold_prices.csv"), "")
	bars, err := f.FetchDailyBars("GOLD", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{60.12, 60.89, 60.69, 60.98, 61.62}
	if len(bars) != len(want) {
		t.Fatalf("expected %d prices, got %d: %+v", len(want), len(bars), bars)
	}
	for i, w := range want {
		if bars[i].Close != w {
			t.Errorf("bar %d: expected %v, got %v", i, w, bars[i].Close)
		}
	}
	if got := bars[0].Time; !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected first date 2025-01-01, got %v", got)
	}
}

func TestCSVFetcher_OtherColumnAndLimit(t *testing.T) {
	f := NewCSVFetcher(filepath.Join("testdata", "gold_prices.csv"), "price_usd")
	bars, err := f.FetchDailyBars("GOLD", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 2670.40 || bars[1].Close != 2689.90 {
		t.Errorf("unexpected bars %+v", bars)
	}
}

func TestCSVFetcher_Errors(t *testing.T) {
	if _, err := NewCSVFetcher(filepath.Join(t.TempDir(), "missing.csv"), "").FetchDailyBars("GOLD", 0); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := NewCSVFetcher(filepath.Join("testdata", "gold_prices.csv"), "Price_EUR").FetchDailyBars("GOLD", 0); err == nil {
		t.Error("expected error for missing column")
	}
}

func TestAPIFetcher_JSONPath(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"timestamp": 1736208000, "close": 2649.3},
			{"timestamp": 1736035200, "close": 2624.5},
			{"timestamp": 1736121600, "close": 2658.1}
		]`))
	}))
	defer srv.Close()

	f := NewAPIFetcher(srv.URL, "secret", "")
	bars, err := f.FetchDailyBars("XAU", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if !strings.Contains(gotQuery, "symbol=XAU") || !strings.Contains(gotQuery, "limit=10") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	want := []float64{2624.5, 2658.1, 2649.3}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i, w := range want {
		if bars[i].Close != w {
			t.Errorf("bar %d: expected %v, got %v", i, w, bars[i].Close)
		}
	}
}

func TestAPIFetcher_CustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"prices": [61.1, 61.4, 60.9]}}`))
	}))
	defer srv.Close()

	f := NewAPIFetcher(srv.URL, "", "")
	f.ClosePath = "$.data.prices[*]"
	f.TimePath = ""
	bars, err := f.FetchDailyBars("GOLD", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 || bars[2].Close != 60.9 || !bars[0].Time.IsZero() {
		t.Errorf("unexpected bars %+v", bars)
	}
}

func TestAPIFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	if _, err := NewAPIFetcher(srv.URL, "", "").FetchDailyBars("GOLD", 5); err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestYahooFetcher(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"chart": {"result": [{
			"timestamp": [1736035200, 1736121600, 1736208000],
			"indicators": {"quote": [{
				"open": [2620.0, null, 2650.0],
				"high": [2630.0, null, 2660.0],
				"low": [2610.0, null, 2640.0],
				"close": [2624.5, null, 2649.3],
				"volume": [100, null, 120]
			}]}
		}], "error": null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars("gold", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/GC=F" {
		t.Errorf("expected gold futures ticker, got path %q", gotPath)
	}
	if len(bars) != 2 || bars[0].Close != 2624.5 || bars[1].Close != 2649.3 {
		t.Errorf("expected null bar skipped, got %+v", bars)
	}
}
