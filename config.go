package investor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the investor tools. It is read once at
// startup.
type Config struct {
	Investing InvestingConfig `yaml:"investing"`
	// Account is the default account of the command line tools.
	Account string `yaml:"account,omitempty" env:"INVESTOR_ACCOUNT"`
	// Currency of quotes and balances.
	Currency string         `yaml:"currency" env:"INVESTOR_CURRENCY"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// InvestingConfig configures the quote service.
type InvestingConfig struct {
	AlphaVantageKey string        `yaml:"alphavantagekey" env:"ALPHAVANTAGE_KEY"`
	BaseURL         string        `yaml:"baseurl" env:"ALPHAVANTAGE_URL"`
	Timeout         time.Duration `yaml:"timeout" env:"QUOTE_TIMEOUT"`
	// CacheTTL keeps quotes for a while, 0 disables the cache.
	CacheTTL time.Duration `yaml:"cachettl" env:"QUOTE_CACHE_TTL"`
}

// StoreConfig selects where holdings are persisted.
type StoreConfig struct {
	Type string `yaml:"type" env:"HOLDINGS_STORE"` // "yaml" or "pebble"
	Path string `yaml:"path" env:"HOLDINGS_PATH"`
}

// DatabaseConfig locates the sqlite database of the standalone bank and
// of the settlement journal.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"INVESTOR_DB"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	File  string `yaml:"file,omitempty" env:"LOG_FILE"`
}

type ServerConfig struct {
	Addr    string   `yaml:"addr" env:"SERVER_ADDR"`
	Origins []string `yaml:"origins" env:"CORS_ORIGINS" envSeparator:","`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Investing: InvestingConfig{
			BaseURL: DefaultQuoteURL,
			Timeout: DefaultQuoteTimeout,
		},
		Currency: "USD",
		Store: StoreConfig{
			Type: "yaml",
			Path: "accounts.yml",
		},
		Database: DatabaseConfig{Path: "investor.db"},
		Log:      LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:    ":8080",
			Origins: []string{"*"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, writes the
// completed file back so that every key shows up, then applies the ".env"
// file of the current directory and the environment.
//
// A missing file is not an error: it is created with the defaults.
// Values coming from the environment are never written to the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	// optional, missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := ValidateCurrency(c.Currency); err != nil {
		return err
	}
	switch c.Store.Type {
	case "yaml", "pebble":
	default:
		return fmt.Errorf("store.type must be 'yaml' or 'pebble', got %q", c.Store.Type)
	}
	if c.Account != "" {
		if _, err := ParseAccountID(c.Account); err != nil {
			return fmt.Errorf("account: %w", err)
		}
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Investing.Timeout < 0 || c.Investing.CacheTTL < 0 {
		return fmt.Errorf("investing durations cannot be negative")
	}
	return nil
}
