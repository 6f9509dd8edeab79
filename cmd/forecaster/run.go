package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/forecast"
	"MarketForecast/internal/model"
	"MarketForecast/internal/notifier"
)

type runCmd struct {
	symbol     string
	days       int
	paths      int
	confidence int
	seed       int64
	plain      bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "simulate future prices and print a summary" }
func (*runCmd) Usage() string {
	return `forecaster run [-symbol <name>] [-days n] [-paths n] [-confidence pct] [-seed n] [-plain]

  Loads the price history, estimates drift and volatility, simulates
  price paths and prints the final-day overview. Unset flags use the config.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "market to forecast (defaults to data_source.symbol)")
	f.IntVar(&c.days, "days", 0, "forecast horizon in days")
	f.IntVar(&c.paths, "paths", 0, "number of simulated paths")
	f.IntVar(&c.confidence, "confidence", 0, "confidence level in percent, shown in the report")
	f.Int64Var(&c.seed, "seed", 0, "random seed, 0 for non-reproducible draws")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of rendering it")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	params := cfg.SimulationParams()
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "days":
			params.HorizonDays = c.days
		case "paths":
			params.PathCount = c.paths
		case "confidence":
			params.Confidence = c.confidence
		}
	})
	if err := checkParams(params, cfg.SimulationLimits()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbol := cfg.DataSource.Symbol
	if c.symbol != "" {
		symbol = c.symbol
	}
	seed := cfg.Simulation.Seed
	if c.seed != 0 {
		seed = c.seed
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

	fc, err := forecast.NewEngine(log, seed).Run(series, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(notifier.FormatForecastMarkdown(fc, cfg.App.Currency), c.plain)
	return subcommands.ExitSuccess
}

// checkParams validates flag values, including the display-only confidence, against the caps.
func checkParams(params model.SimulationParams, limits model.SimulationLimits) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := params.CheckConfidence(); err != nil {
		return err
	}
	return limits.Check(params)
}

func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
