package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/forecast"
	"MarketForecast/internal/metrics"
	"MarketForecast/internal/notifier"
	"MarketForecast/internal/scheduler"
)

type serveCmd struct {
	runNow bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the daily forecast bot" }
func (*serveCmd) Usage() string {
	return `forecaster serve [-now]

  Loads prices in the background, sends a daily forecast to Telegram,
  answers chat commands and exposes Prometheus metrics.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runNow, "now", os.Getenv("RUN_ON_START") == "true", "send a forecast as soon as prices are loaded")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := cfg.ValidateNotifier(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: config validation: %v\n", err)
		return subcommands.ExitUsageError
	}
	log.Info().Str("config", *configPath).Msg("forecaster starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := metrics.Serve(cfg.App.MetricsAddr, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info().Str("addr", srv.Addr).Msg("metrics listening")

	ps := openStore(cfg, log)
	defer ps.Close()

	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source")
	loader := collector.NewLoader(fetcher, ps, cfg.DataSource.Symbol, cfg.DataSource.HistoryDays, log)
	loader.Start(ctx)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	engine := forecast.NewEngine(log, cfg.Simulation.Seed)
	sched := scheduler.NewScheduler(ctx, loader, engine, tn, cfg.SimulationParams(), cfg.App.Currency, log)
	sched.Limits = cfg.SimulationLimits()
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sched.Start()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if c.runNow {
		go func() {
			for loader.State() == collector.StateLoading {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
			sched.RunDailyNow()
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")

	sched.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("metrics shutdown")
	}
	log.Info().Msg("forecaster stopped")
	return subcommands.ExitSuccess
}
