package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/forecast"
	"MarketForecast/internal/notifier"
)

type estimateCmd struct {
	symbol string
}

func (*estimateCmd) Name() string     { return "estimate" }
func (*estimateCmd) Synopsis() string { return "print the drift and volatility of the price history" }
func (*estimateCmd) Usage() string {
	return `forecaster estimate [-symbol <name>]

  Loads the price history and prints its per-day log-return drift and volatility.
`
}

func (c *estimateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "market to estimate (defaults to data_source.symbol)")
}

func (c *estimateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbol := cfg.DataSource.Symbol
	if c.symbol != "" {
		symbol = c.symbol
	}

	ps := openStore(cfg, log)
	defer ps.Close()

	loader := collector.NewLoader(newFetcher(cfg), ps, symbol, cfg.DataSource.HistoryDays, log)
	if err := loader.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	series, err := loader.Series()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	est, err := forecast.NewEngine(log, 0).Estimate(series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Symbol:     %s\n", series.Symbol)
	fmt.Printf("Source:     %s\n", series.Source)
	fmt.Printf("Prices:     %d\n", series.Len())
	fmt.Printf("Last Price: %s\n", notifier.FormatPrice(series.Last(), cfg.App.Currency))
	fmt.Printf("Drift:      %s\n", notifier.FormatRate(est.Mu))
	fmt.Printf("Volatility: %s\n", notifier.FormatRate(est.Sigma))
	return subcommands.ExitSuccess
}
