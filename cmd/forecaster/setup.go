package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/config"
	"MarketForecast/internal/logger"
	"MarketForecast/internal/store"
)

// loadConfig reads and validates the config and builds the logger.
func loadConfig(logOut io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config validation: %w", err)
	}
	return cfg, logger.NewWithWriter(logOut, cfg.App.LogLevel), nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Kind {
	case config.SourceCSV:
		return collector.NewCSVFetcher(ds.CSVPath, ds.CSVColumn)
	case config.SourceYahoo:
		return collector.NewYahooFetcher(cfg.Proxy)
	case config.SourceAPI:
		f := collector.NewAPIFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
		f.ClosePath = ds.ClosePath
		f.TimePath = ds.TimePath
		return f
	default:
		return collector.NewStaticFetcher(nil)
	}
}

// openStore opens the price cache, falling back to a no-op store.
func openStore(cfg *config.Config, log zerolog.Logger) store.PriceStore {
	if cfg.Database.SQLitePath == "" {
		return store.NewNoopStore()
	}
	ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite store failed, using noop")
		return store.NewNoopStore()
	}
	return ss
}
