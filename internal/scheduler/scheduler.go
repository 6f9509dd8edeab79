package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/forecast"
	"MarketForecast/internal/model"
	"MarketForecast/internal/notifier"
)

const helpText = "Available commands:\n" +
	"• /forecast [days] [paths] - run a price simulation\n" +
	"• /params - show drift and volatility\n" +
	"• /status - show data loading status"

// Scheduler runs the daily forecast and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Loader   *collector.Loader
	Engine   *forecast.Engine
	Notifier notifier.Notifier
	Params   model.SimulationParams
	Limits   model.SimulationLimits
	Currency string
	Ctx      context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler. n may be nil, in which case reports are only logged.
func NewScheduler(ctx context.Context, loader *collector.Loader, engine *forecast.Engine, n notifier.Notifier,
	params model.SimulationParams, currency string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Loader:   loader,
		Engine:   engine,
		Notifier: n,
		Params:   params,
		Limits:   model.DefaultLimits,
		Currency: currency,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the daily reload-and-forecast task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately.
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Msg("running daily forecast")
	if err := s.Loader.Load(s.Ctx); err != nil {
		s.log.Warn().Err(err).Msg("daily reload failed")
	}

	fc, err := s.forecast(s.Params)
	if err != nil {
		s.log.Error().Err(err).Msg("daily forecast")
		s.trySend(fmt.Sprintf("❌ Daily forecast failed: %v", err))
		return
	}
	s.trySend(notifier.FormatForecastReport(fc, s.Currency))
}

func (s *Scheduler) forecast(params model.SimulationParams) (*model.Forecast, error) {
	series, err := s.Loader.Series()
	if err != nil {
		return nil, err
	}
	return s.Engine.Run(series, params)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats address commands as /forecast@botname.
	name, _, _ := strings.Cut(fields[0], "@")

	switch strings.ToLower(name) {
	case "/forecast":
		params, err := s.parseParams(fields[1:])
		if err != nil {
			return "⚠️ " + err.Error()
		}
		fc, err := s.forecast(params)
		if err != nil {
			return errorReply(err)
		}
		return notifier.FormatForecastReport(fc, s.Currency)
	case "/params":
		series, err := s.Loader.Series()
		if err != nil {
			return errorReply(err)
		}
		est, err := s.Engine.Estimate(series)
		if err != nil {
			return errorReply(err)
		}
		return notifier.FormatEstimate(series, est, s.Currency)
	case "/status":
		return s.status()
	default:
		return helpText
	}
}

// parseParams overrides the default horizon and path count with positional
// arguments. Requests above Limits are refused before any allocation.
func (s *Scheduler) parseParams(args []string) (model.SimulationParams, error) {
	params := s.Params
	dst := []*int{&params.HorizonDays, &params.PathCount}
	if len(args) > len(dst) {
		return params, fmt.Errorf("usage: /forecast [days] [paths]")
	}
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return params, fmt.Errorf("%q is not a whole number", arg)
		}
		*dst[i] = n
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	if err := s.Limits.Check(params); err != nil {
		return params, err
	}
	return params, nil
}

func (s *Scheduler) status() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Symbol: %s\n", s.Loader.Symbol))
	b.WriteString(fmt.Sprintf("Source: %s\n", s.Loader.Fetcher.Name()))
	b.WriteString(fmt.Sprintf("State: %s\n", s.Loader.State()))
	if series, err := s.Loader.Series(); err == nil {
		b.WriteString(fmt.Sprintf("Prices: %d\n", series.Len()))
		b.WriteString(fmt.Sprintf("Last Price: %s\n", notifier.FormatPrice(series.Last(), s.Currency)))
		if !series.FetchedAt.IsZero() {
			b.WriteString(fmt.Sprintf("Fetched: %s\n", series.FetchedAt.Format("2006-01-02 15:04")))
		}
	}
	if err := s.Loader.LastError(); err != nil {
		b.WriteString(fmt.Sprintf("Last Error: %v\n", err))
	}
	return b.String()
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, model.ErrDataNotReady):
		return "⏳ Price history is not loaded yet, try again shortly."
	case errors.Is(err, model.ErrInsufficientData):
		return "⚠️ Not enough price history to estimate drift and volatility."
	default:
		return fmt.Sprintf("❌ %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		s.log.Info().Str("report", text).Msg("no notifier configured")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
