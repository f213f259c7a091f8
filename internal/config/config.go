package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
	Chart struct {
		TooltipOffset float64 `yaml:"tooltip_offset" validate:"gte=0"`
		MinHeight     float64 `yaml:"min_height" validate:"gt=0"`
		Width         float64 `yaml:"width" validate:"gt=0"`
	} `yaml:"chart"`
	Generator struct {
		Seed int64 `yaml:"seed"`
		Days int   `yaml:"days" validate:"gte=1,lte=3650"`
	} `yaml:"generator"`
	Market struct {
		Timezone  string `yaml:"timezone" validate:"required"`
		OpenCron  string `yaml:"open_cron" validate:"required"`
		CloseCron string `yaml:"close_cron" validate:"required"`
	} `yaml:"market"`
	Database struct {
		SQLiteDSN string `yaml:"sqlite_dsn"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	UI struct {
		Dark       bool `yaml:"dark"`
		ChartRows  int  `yaml:"chart_rows" validate:"gte=8"`
		TradeLimit int  `yaml:"trade_limit" validate:"gte=1"`
	} `yaml:"ui"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.UI.Dark = true
	applyDefaults(cfg)
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.UI.Dark = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STOCKPULSE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STOCKPULSE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("STOCKPULSE_SEED: %w", err)
		}
		cfg.Generator.Seed = seed
	}
	if v := os.Getenv("STOCKPULSE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("STOCKPULSE_DAYS: %w", err)
		}
		cfg.Generator.Days = days
	}
	if v := os.Getenv("STOCKPULSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SQLITE_DSN"); v != "" {
		cfg.Database.SQLiteDSN = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Chart.TooltipOffset == 0 {
		cfg.Chart.TooltipOffset = 10
	}
	if cfg.Chart.MinHeight == 0 {
		cfg.Chart.MinHeight = 300
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 960
	}
	if cfg.Generator.Days == 0 {
		cfg.Generator.Days = 90
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "America/New_York"
	}
	if cfg.Market.OpenCron == "" {
		cfg.Market.OpenCron = "0 30 9 * * 1-5"
	}
	if cfg.Market.CloseCron == "" {
		cfg.Market.CloseCron = "0 0 16 * * 1-5"
	}
	if cfg.Database.SQLiteDSN == "" {
		cfg.Database.SQLiteDSN = "file:stockpulse?mode=memory&cache=shared"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.UI.ChartRows == 0 {
		cfg.UI.ChartRows = 20
	}
	if cfg.UI.TradeLimit == 0 {
		cfg.UI.TradeLimit = 20
	}
}

// Validate checks that every field is within range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
