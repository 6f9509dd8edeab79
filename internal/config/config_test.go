package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"MarketForecast/internal/model"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected App.LogLevel: %s", cfg.App.LogLevel)
	}
	if cfg.App.MetricsAddr != ":9200" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.App.Currency != "USD" {
		t.Fatalf("unexpected App.Currency: %s", cfg.App.Currency)
	}
	if cfg.DataSource.Kind != SourceCSV || cfg.DataSource.Symbol != "XAU" {
		t.Fatalf("unexpected data source: %+v", cfg.DataSource)
	}
	if cfg.DataSource.CSVColumn != "Price_USD" || cfg.DataSource.HistoryDays != 500 {
		t.Fatalf("unexpected csv settings: %+v", cfg.DataSource)
	}
	p := cfg.SimulationParams()
	if p.HorizonDays != 60 || p.PathCount != 250 || p.Confidence != 90 {
		t.Fatalf("unexpected simulation params: %+v", p)
	}
	if cfg.Simulation.Seed != 7 {
		t.Fatalf("unexpected seed: %d", cfg.Simulation.Seed)
	}
	if l := cfg.SimulationLimits(); l.MaxHorizonDays != 365 || l.MaxPaths != 5000 {
		t.Fatalf("unexpected limits: %+v", l)
	}
	if cfg.Schedule.DailyCron != "0 30 17 * * 1-5" {
		t.Fatalf("unexpected daily cron: %s", cfg.Schedule.DailyCron)
	}
	if cfg.Telegram.ChatID != "42" {
		t.Fatalf("unexpected chat id: %s", cfg.Telegram.ChatID)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := cfg.ValidateNotifier(); err != nil {
		t.Fatalf("expected valid notifier config, got %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataSource.Kind != SourceStatic || cfg.DataSource.Symbol != "GOLD" {
		t.Fatalf("unexpected default source: %+v", cfg.DataSource)
	}
	if cfg.DataSource.CSVColumn != "Price_JOD" {
		t.Fatalf("unexpected default column: %s", cfg.DataSource.CSVColumn)
	}
	p := cfg.SimulationParams()
	if p.HorizonDays != 30 || p.PathCount != 100 || p.Confidence != 95 {
		t.Fatalf("unexpected default params: %+v", p)
	}
	if cfg.App.Currency != "JOD" {
		t.Fatalf("unexpected default currency: %s", cfg.App.Currency)
	}
	if l := cfg.SimulationLimits(); l != model.DefaultLimits {
		t.Fatalf("unexpected default limits: %+v", l)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if err := cfg.ValidateNotifier(); err == nil {
		t.Fatal("expected notifier validation to fail without telegram settings")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FORECAST_SOURCE", "yahoo")
	t.Setenv("FORECAST_DAYS", "10")
	t.Setenv("FORECAST_PATHS", "20")
	t.Setenv("FORECAST_SEED", "99")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataSource.Kind != SourceYahoo {
		t.Errorf("expected yahoo source, got %s", cfg.DataSource.Kind)
	}
	if cfg.Simulation.HorizonDays != 10 || cfg.Simulation.PathCount != 20 || cfg.Simulation.Seed != 99 {
		t.Errorf("env overrides not applied: %+v", cfg.Simulation)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("expected warn, got %s", cfg.App.LogLevel)
	}
}

func TestLoadBadEnvNumber(t *testing.T) {
	t.Setenv("FORECAST_PATHS", "many")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected parse error for non-numeric FORECAST_PATHS")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.DataSource.Kind = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown source kind")
	}

	cfg = base()
	cfg.DataSource.Kind = SourceCSV
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for csv source without path")
	}

	cfg = base()
	cfg.DataSource.Kind = SourceAPI
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for api source without base url")
	}

	cfg = base()
	cfg.Simulation.PathCount = -1
	if err := cfg.Validate(); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	cfg = base()
	cfg.Simulation.HorizonDays = cfg.Simulation.MaxHorizonDays + 1
	if err := cfg.Validate(); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for horizon above cap, got %v", err)
	}

	cfg = base()
	cfg.Simulation.MaxPaths = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative path cap")
	}

	cfg = base()
	cfg.Simulation.Confidence = 150
	if err := cfg.Validate(); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for confidence, got %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FORECAST_SYMBOL=SILVER\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("FORECAST_SYMBOL", "")
	os.Unsetenv("FORECAST_SYMBOL")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if got := os.Getenv("FORECAST_SYMBOL"); got != "SILVER" {
		t.Fatalf("expected SILVER from env file, got %q", got)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "none.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestExampleConfigRunsOutOfTheBox(t *testing.T) {
	root := filepath.Join("..", "..")
	cfg, err := Load(filepath.Join(root, "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("example config does not validate: %v", err)
	}
	if cfg.DataSource.Kind == SourceCSV {
		if _, err := os.Stat(filepath.Join(root, cfg.DataSource.CSVPath)); err != nil {
			t.Fatalf("example csv source is missing: %v", err)
		}
	}
}
