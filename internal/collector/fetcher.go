package collector

import "MarketForecast/internal/model"

// Fetcher defines the interface for fetching a daily price history.
// Bars are returned in chronological order.
type Fetcher interface {
	FetchDailyBars(symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// trimTail keeps the last n bars when n is positive.
func trimTail(bars []model.OHLCV, n int) []model.OHLCV {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
