package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds application settings for the CLI and HTTP server.
type Settings struct {
	Server   ServerSettings `toml:"server"`
	Data     DataSettings   `toml:"data"`
	Cache    CacheSettings  `toml:"cache"`
	Log      LogSettings    `toml:"log"`
	Defaults Defaults       `toml:"defaults"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr         string   `toml:"addr"`
	AllowOrigins []string `toml:"allow_origins"`
}

// DataSettings locates the historical series. SQLitePath wins when both are set.
type DataSettings struct {
	CSVPath    string `toml:"csv_path"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// CacheSettings configures the simulation result cache. An empty Redis
// address selects the in-process cache.
type CacheSettings struct {
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// TTL returns the cache lifetime.
func (c CacheSettings) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Defaults are the assumptions injected into calculations when a plan or
// request leaves them out.
type Defaults struct {
	NormalSpend              float64 `toml:"normal_spend"`
	FatSpend                 float64 `toml:"fat_spend"`
	WithdrawalRate           float64 `toml:"withdrawal_rate"`
	ExpectedReturn           float64 `toml:"expected_return"`
	InflationRate            float64 `toml:"inflation_rate"`
	StatePensionAge          int     `toml:"state_pension_age"`
	StatePensionAnnual       float64 `toml:"state_pension_annual"`
	HorizonAge               int     `toml:"horizon_age"`
	CoastAge                 int     `toml:"coast_age"`
	CoastMonthlyContribution float64 `toml:"coast_monthly_contribution"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr:         ":8080",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Data: DataSettings{
			CSVPath: "data/historical_returns.csv",
		},
		Cache: CacheSettings{
			TTLSeconds: 3600,
		},
		Log: LogSettings{
			Level:  "info",
			Pretty: true,
		},
		Defaults: Defaults{
			NormalSpend:              30000,
			FatSpend:                 50000,
			WithdrawalRate:           4,
			ExpectedReturn:           7,
			InflationRate:            2.5,
			StatePensionAge:          67,
			StatePensionAnnual:       11502,
			HorizonAge:               95,
			CoastAge:                 45,
			CoastMonthlyContribution: 0,
		},
	}
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings that would make every calculation fail.
func (s Settings) Validate() error {
	if s.Defaults.WithdrawalRate <= 0 {
		return fmt.Errorf("invalid settings: defaults.withdrawal_rate must be positive")
	}
	if s.Defaults.HorizonAge <= 0 {
		return fmt.Errorf("invalid settings: defaults.horizon_age must be positive")
	}
	if s.Cache.TTLSeconds < 0 {
		return fmt.Errorf("invalid settings: cache.ttl_seconds cannot be negative")
	}
	return nil
}

// SaveSettings writes settings as TOML.
func SaveSettings(path string, cfg Settings) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
