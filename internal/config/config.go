package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Audit     AuditConfig     `mapstructure:"audit"`
}

// AppConfig covers process-level settings.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
	HTTPAddr string `mapstructure:"http_addr"`
	APIKey   string `mapstructure:"api_key"`
}

// TelemetryConfig carries the staleness TTLs. Both are read once at startup;
// a zero TTL disables the corresponding staleness check.
type TelemetryConfig struct {
	AccountTTLSec int `mapstructure:"account_ttl_sec"`
	HistoryTTLSec int `mapstructure:"history_ttl_sec"`
}

// AuditConfig controls the ingest audit trail.
type AuditConfig struct {
	DBPath    string `mapstructure:"db_path"`
	RecentMax int    `mapstructure:"recent_max"`
}

func (t TelemetryConfig) AccountTTL() time.Duration {
	return time.Duration(t.AccountTTLSec) * time.Second
}

func (t TelemetryConfig) HistoryTTL() time.Duration {
	return time.Duration(t.HistoryTTLSec) * time.Second
}

// Load reads the yaml config at path, fills defaults and validates. A missing
// file is not an error: the service runs on defaults plus environment
// overrides, matching the original deployment style.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LIVEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults(v.IsSet)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const (
	defaultEnv           = "dev"
	defaultLogLevel      = "info"
	defaultHTTPAddr      = ":8000"
	defaultAPIKey        = "dev-key"
	defaultAccountTTLSec = 600
	defaultRecentMax     = 100
)

// applyDefaults fills unset fields. isSet distinguishes an explicit zero
// (e.g. account_ttl_sec: 0 to disable staleness) from an absent key.
func (c *Config) applyDefaults(isSet func(string) bool) {
	if c.App.Env == "" {
		c.App.Env = defaultEnv
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = defaultHTTPAddr
	}
	if c.App.APIKey == "" {
		c.App.APIKey = defaultAPIKey
	}
	if c.Telemetry.AccountTTLSec == 0 && !isSet("telemetry.account_ttl_sec") {
		c.Telemetry.AccountTTLSec = defaultAccountTTLSec
	}
	if c.Audit.RecentMax == 0 {
		c.Audit.RecentMax = defaultRecentMax
	}
}

func validate(c *Config) error {
	if c.Telemetry.AccountTTLSec < 0 {
		return fmt.Errorf("telemetry.account_ttl_sec cannot be negative")
	}
	if c.Telemetry.HistoryTTLSec < 0 {
		return fmt.Errorf("telemetry.history_ttl_sec cannot be negative")
	}
	if c.Audit.RecentMax < 0 {
		return fmt.Errorf("audit.recent_max cannot be negative")
	}
	return nil
}
