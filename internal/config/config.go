package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketForecast/internal/collector"
	"MarketForecast/internal/model"
)

// Source kinds accepted in data_source.kind.
const (
	SourceStatic = "static"
	SourceCSV    = "csv"
	SourceYahoo  = "yahoo"
	SourceAPI    = "api"
)

// Config holds all application configuration.
type Config struct {
	App struct {
		LogLevel    string `yaml:"log_level"`
		MetricsAddr string `yaml:"metrics_addr"`
		Currency    string `yaml:"currency"`
	} `yaml:"app"`
	DataSource struct {
		Kind        string `yaml:"kind"`
		Symbol      string `yaml:"symbol"`
		CSVPath     string `yaml:"csv_path"`
		CSVColumn   string `yaml:"csv_column"`
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		ClosePath   string `yaml:"close_path"`
		TimePath    string `yaml:"time_path"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Simulation struct {
		HorizonDays int   `yaml:"horizon_days"`
		PathCount   int   `yaml:"path_count"`
		Confidence  int   `yaml:"confidence"`
		Seed        int64 `yaml:"seed"`

		// Caps on requests from chat commands and CLI flags.
		MaxHorizonDays int `yaml:"max_horizon_days"`
		MaxPaths       int `yaml:"max_paths"`
	} `yaml:"simulation"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// LoadEnvFile loads variables from a .env file without overriding the
// ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"FORECAST_SOURCE", &c.DataSource.Kind},
		{"FORECAST_SYMBOL", &c.DataSource.Symbol},
		{"FORECAST_CSV_PATH", &c.DataSource.CSVPath},
		{"FORECAST_API_URL", &c.DataSource.BaseURL},
		{"FORECAST_API_KEY", &c.DataSource.APIKey},
		{"HTTPS_PROXY", &c.Proxy},
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"LOG_LEVEL", &c.App.LogLevel},
		{"METRICS_ADDR", &c.App.MetricsAddr},
		{"CRON_DAILY", &c.Schedule.DailyCron},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"FORECAST_DAYS", &c.Simulation.HorizonDays},
		{"FORECAST_PATHS", &c.Simulation.PathCount},
		{"FORECAST_CONFIDENCE", &c.Simulation.Confidence},
		{"FORECAST_MAX_DAYS", &c.Simulation.MaxHorizonDays},
		{"FORECAST_MAX_PATHS", &c.Simulation.MaxPaths},
	}
	for _, n := range ints {
		if v := os.Getenv(n.key); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", n.key, err)
			}
			*n.dst = i
		}
	}
	if v := os.Getenv("FORECAST_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse FORECAST_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.MetricsAddr == "" {
		c.App.MetricsAddr = ":9108"
	}
	if c.App.Currency == "" {
		c.App.Currency = "JOD"
	}
	if c.DataSource.Kind == "" {
		c.DataSource.Kind = SourceStatic
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "GOLD"
	}
	if c.DataSource.CSVColumn == "" {
		c.DataSource.CSVColumn = collector.DefaultCSVColumn
	}
	if c.DataSource.ClosePath == "" {
		c.DataSource.ClosePath = collector.DefaultClosePath
	}
	if c.DataSource.TimePath == "" {
		c.DataSource.TimePath = collector.DefaultTimePath
	}
	if c.Simulation.HorizonDays == 0 {
		c.Simulation.HorizonDays = 30
	}
	if c.Simulation.PathCount == 0 {
		c.Simulation.PathCount = 100
	}
	if c.Simulation.Confidence == 0 {
		c.Simulation.Confidence = 95
	}
	if c.Simulation.MaxHorizonDays == 0 {
		c.Simulation.MaxHorizonDays = model.DefaultLimits.MaxHorizonDays
	}
	if c.Simulation.MaxPaths == 0 {
		c.Simulation.MaxPaths = model.DefaultLimits.MaxPaths
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 18 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/forecast.db"
	}
}

// SimulationParams returns the configured default simulation parameters.
func (c *Config) SimulationParams() model.SimulationParams {
	return model.SimulationParams{
		HorizonDays: c.Simulation.HorizonDays,
		PathCount:   c.Simulation.PathCount,
		Confidence:  c.Simulation.Confidence,
	}
}

// SimulationLimits returns the configured request caps.
func (c *Config) SimulationLimits() model.SimulationLimits {
	return model.SimulationLimits{
		MaxHorizonDays: c.Simulation.MaxHorizonDays,
		MaxPaths:       c.Simulation.MaxPaths,
	}
}

// Validate checks the data source and simulation defaults.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case SourceStatic, SourceYahoo:
	case SourceCSV:
		if c.DataSource.CSVPath == "" {
			return fmt.Errorf("data_source.csv_path is required for csv source")
		}
	case SourceAPI:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for api source")
		}
	default:
		return fmt.Errorf("data_source.kind %q is not one of static, csv, yahoo, api", c.DataSource.Kind)
	}
	if c.DataSource.HistoryDays < 0 {
		return fmt.Errorf("data_source.history_days must not be negative")
	}
	if c.Simulation.MaxHorizonDays < 0 || c.Simulation.MaxPaths < 0 {
		return fmt.Errorf("simulation.max_horizon_days and simulation.max_paths must not be negative")
	}
	params := c.SimulationParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := params.CheckConfidence(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.SimulationLimits().Check(params); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

// ValidateNotifier checks the Telegram settings needed by the serve mode.
func (c *Config) ValidateNotifier() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
