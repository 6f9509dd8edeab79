// Package store caches loaded price histories so a forecast can still run
// when the upstream source is unavailable. Simulation results are never stored.
package store

import (
	"errors"

	"MarketForecast/internal/model"
)

// ErrNotCached is returned when no history exists for a symbol.
var ErrNotCached = errors.New("no cached price history")

// PriceStore persists price histories keyed by symbol.
type PriceStore interface {
	SaveSeries(series *model.PriceSeries) error
	LoadSeries(symbol string) (*model.PriceSeries, error)
	Close() error
}
