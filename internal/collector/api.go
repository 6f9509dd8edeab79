package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"MarketForecast/internal/model"
)

// Default JSONPath expressions for an endpoint returning a list of bar objects.
const (
	DefaultClosePath = "$[*].close"
	DefaultTimePath  = "$[*].timestamp"
)

// APIFetcher implements Fetcher against a generic REST endpoint. The close
// prices (and optionally unix timestamps) are located with JSONPath.
type APIFetcher struct {
	BaseURL   string
	APIKey    string
	ClosePath string
	TimePath  string
	Client    *http.Client
}

// NewAPIFetcher creates a new fetcher with optional proxy support.
func NewAPIFetcher(baseURL, apiKey, proxyURL string) *APIFetcher {
	return &APIFetcher{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ClosePath: DefaultClosePath,
		TimePath:  DefaultTimePath,
		Client:    newHTTPClient(proxyURL),
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *APIFetcher) Name() string { return "api" }

func (f *APIFetcher) FetchDailyBars(symbol string, days int) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), days)
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	return f.extract(doc, days)
}

func (f *APIFetcher) extract(doc any, days int) ([]model.OHLCV, error) {
	closes, err := selectFloats(f.ClosePath, doc)
	if err != nil {
		return nil, fmt.Errorf("extract closes: %w", err)
	}
	var stamps []float64
	if f.TimePath != "" {
		// Timestamps are optional; a missing field leaves bars undated.
		if ts, err := selectFloats(f.TimePath, doc); err == nil && len(ts) == len(closes) {
			stamps = ts
		}
	}

	bars := make([]model.OHLCV, 0, len(closes))
	for i, c := range closes {
		if c <= 0 {
			continue
		}
		bar := model.OHLCV{Close: c}
		if stamps != nil {
			bar.Time = time.Unix(int64(stamps[i]), 0).UTC()
		}
		bars = append(bars, bar)
	}
	if stamps != nil {
		sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	}
	return trimTail(bars, days), nil
}

// selectFloats evaluates path against doc and returns the numeric results.
func selectFloats(path string, doc any) ([]float64, error) {
	val, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	list, ok := val.([]any)
	if !ok {
		list = []any{val}
	}
	out := make([]float64, 0, len(list))
	for _, v := range list {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case json.Number:
			x, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%q: %w", path, err)
			}
			out = append(out, x)
		default:
			return nil, fmt.Errorf("%q: %v is not a number", path, v)
		}
	}
	return out, nil
}
