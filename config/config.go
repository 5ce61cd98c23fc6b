package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	API     APIConfig     `yaml:"api"`
	Data    DataConfig    `yaml:"data"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// BotConfig controls the quoting behavior.
type BotConfig struct {
	Asset                string  `yaml:"asset"` // bitcoin | ethereum | solana | xrp
	PortfolioSize        float64 `yaml:"portfolio_size"`
	MaxPositionPercent   float64 `yaml:"max_position_percent"`
	RiskThreshold        float64 `yaml:"risk_threshold"`
	NumSimulations       int     `yaml:"num_simulations"`
	LoopDelaySeconds     int     `yaml:"loop_delay_seconds"`
	RolloverDelaySeconds int     `yaml:"rollover_delay_seconds"`
	Live                 bool    `yaml:"live"`
}

// APIConfig holds the API base URLs.
type APIConfig struct {
	CLOBBase    string `yaml:"clob_base"`
	GammaBase   string `yaml:"gamma_base"`
	BinanceBase string `yaml:"binance_base"`
}

// DataConfig controls the log-return window on disk.
type DataConfig struct {
	ReturnsFile string `yaml:"returns_file"`
	WindowSize  int    `yaml:"window_size"`
}

// StorageConfig controls where audit history is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML file and the .env file if present. Env values override
// the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// LoopDelay returns the per-cycle pause as a time.Duration.
func (c *Config) LoopDelay() time.Duration {
	return time.Duration(c.Bot.LoopDelaySeconds) * time.Second
}

// RolloverDelay returns the settlement wait at session boundaries.
func (c *Config) RolloverDelay() time.Duration {
	return time.Duration(c.Bot.RolloverDelaySeconds) * time.Second
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Bot.PortfolioSize <= 0 {
		return fmt.Errorf("portfolio_size must be positive, got %v", c.Bot.PortfolioSize)
	}
	if c.Bot.MaxPositionPercent <= 0 || c.Bot.MaxPositionPercent > 1 {
		return fmt.Errorf("max_position_percent must be in (0, 1], got %v", c.Bot.MaxPositionPercent)
	}
	if c.Bot.RiskThreshold < 0 {
		return fmt.Errorf("risk_threshold must not be negative, got %v", c.Bot.RiskThreshold)
	}
	if c.Bot.NumSimulations <= 0 {
		return fmt.Errorf("num_simulations must be positive, got %v", c.Bot.NumSimulations)
	}
	return nil
}

// applyEnvOverrides replaces values with environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills in sensible values for anything left unset.
func setDefaults(cfg *Config) {
	if cfg.Bot.Asset == "" {
		cfg.Bot.Asset = "bitcoin"
	}
	if cfg.Bot.PortfolioSize == 0 {
		cfg.Bot.PortfolioSize = 10
	}
	if cfg.Bot.MaxPositionPercent == 0 {
		cfg.Bot.MaxPositionPercent = 0.5
	}
	if cfg.Bot.RiskThreshold == 0 {
		cfg.Bot.RiskThreshold = 0.005
	}
	if cfg.Bot.NumSimulations == 0 {
		cfg.Bot.NumSimulations = 1_000_000
	}
	if cfg.Bot.RolloverDelaySeconds == 0 {
		cfg.Bot.RolloverDelaySeconds = 60
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.BinanceBase == "" {
		cfg.API.BinanceBase = "https://api.binance.com"
	}
	if cfg.Data.ReturnsFile == "" {
		cfg.Data.ReturnsFile = "data/returns.csv"
	}
	if cfg.Data.WindowSize <= 0 {
		cfg.Data.WindowSize = 10_000
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "updownbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
