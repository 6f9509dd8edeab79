package model

import "time"

// OHLCV represents a single candlestick bar. Sources that only publish a
// single price per day fill Close and leave the other fields zero.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds a chronological price history for one market.
// It is owned by the caller and treated as immutable once loaded.
type PriceSeries struct {
	Symbol    string
	Source    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the close prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Len returns the number of price points.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) Last() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}
