// Package config loads service configuration from a YAML file merged
// with environment variables. Environment values win over file values.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/papertrade-lab/stratler/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

type DatabaseConfig struct {
	// Path is the DuckDB database file; empty means in-memory.
	Path string `yaml:"path"`
}

type TradingConfig struct {
	InitialCapital  float64 `yaml:"initial_capital" validate:"gt=0"`
	CommissionRate  float64 `yaml:"commission_rate" validate:"gte=0,lt=1"`
	DefaultSymbol   string  `yaml:"default_symbol" validate:"required"`
	DefaultPeriod   string  `yaml:"default_period" validate:"required"`
	DefaultInterval string  `yaml:"default_interval" validate:"required"`
}

type MarketConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	// StreamInterval is the pause between websocket price pushes.
	StreamInterval time.Duration `yaml:"stream_interval" validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" validate:"required"`
	TokenTTL  time.Duration `yaml:"token_ttl" validate:"gt=0"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Trading  TradingConfig  `yaml:"trading"`
	Market   MarketConfig   `yaml:"market"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Default returns the configuration used when no file or environment
// overrides are present, except the JWT secret which has no safe
// default.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "trading.duckdb",
		},
		Trading: TradingConfig{
			InitialCapital:  100000,
			CommissionRate:  0.001,
			DefaultSymbol:   "AAPL",
			DefaultPeriod:   "1mo",
			DefaultInterval: "1d",
		},
		Market: MarketConfig{
			CacheTTL:       time.Minute,
			StreamInterval: 5 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and the environment, then validates it. A .env file in the working
// directory is read if present.
func Load(path string) (Config, error) {
	// Missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfig, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfig, err, "failed to parse config file %s", path)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, "invalid configuration", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		if capital, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.InitialCapital = capital
		}
	}

	if v := os.Getenv("COMMISSION"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.CommissionRate = rate
		}
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}
