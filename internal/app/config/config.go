// Package config holds the application-level settings shared by the server
// and the CLI. Values come from a viper instance so the CLI can layer flags
// over the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"
)

// Keys read from viper. With AutomaticEnv each maps to its upper-case env variable.
const (
	KeyHTTPAddr       = "http_addr"
	KeyProvider       = "market_provider"
	KeyCacheTTL       = "cache_ttl"
	KeyWarmCron       = "cache_warm_cron"
	KeyWarmRateLimit  = "warmup_rate_limit"
	KeyWatchlistFile  = "watchlist_file"
	KeyPNGWidth       = "chart_png_width"
	KeyRequestTimeout = "request_timeout"
)

// Config is the application configuration.
type Config struct {
	HTTPAddr       string
	Provider       string
	CacheTTL       time.Duration // 0 keeps entries until the next daily refresh
	WarmCron       string        // empty disables scheduled warm-ups
	WarmRateLimit  int           // provider calls per minute during warm-up, 0 for unlimited
	WatchlistFile  string
	PNGWidth       int
	RequestTimeout time.Duration
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyProvider, ProviderYahoo)
	v.SetDefault(KeyCacheTTL, time.Duration(0))
	v.SetDefault(KeyWarmCron, "")
	v.SetDefault(KeyWarmRateLimit, 0)
	v.SetDefault(KeyWatchlistFile, "configs/watchlist.yaml")
	v.SetDefault(KeyPNGWidth, 1200)
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
}

// Load reads and validates the configuration from v. Environment variables
// are bound automatically.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:       v.GetString(KeyHTTPAddr),
		Provider:       strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider))),
		CacheTTL:       v.GetDuration(KeyCacheTTL),
		WarmCron:       strings.TrimSpace(v.GetString(KeyWarmCron)),
		WarmRateLimit:  v.GetInt(KeyWarmRateLimit),
		WatchlistFile:  v.GetString(KeyWatchlistFile),
		PNGWidth:       v.GetInt(KeyPNGWidth),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the cron expression.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderYahoo, ProviderTwelveData:
	default:
		return fmt.Errorf("config: unknown market provider %q (want %s or %s)", c.Provider, ProviderYahoo, ProviderTwelveData)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config: cache ttl must not be negative, got %s", c.CacheTTL)
	}
	if c.WarmRateLimit < 0 {
		return fmt.Errorf("config: warm-up rate limit must not be negative, got %d", c.WarmRateLimit)
	}
	if c.PNGWidth <= 0 {
		return fmt.Errorf("config: png width must be positive, got %d", c.PNGWidth)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.WarmCron != "" {
		if _, err := cron.ParseStandard(c.WarmCron); err != nil {
			return fmt.Errorf("config: invalid cache warm cron %q: %w", c.WarmCron, err)
		}
	}
	return nil
}
