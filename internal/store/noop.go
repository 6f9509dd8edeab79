package store

import "MarketForecast/internal/model"

// NoopStore is used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveSeries(_ *model.PriceSeries) error { return nil }
func (n *NoopStore) LoadSeries(_ string) (*model.PriceSeries, error) {
	return nil, ErrNotCached
}
func (n *NoopStore) Close() error { return nil }
