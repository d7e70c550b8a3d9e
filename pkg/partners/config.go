package partners

import "time"

// RateLimits holds the rolling-window thresholds for one partner.
type RateLimits struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int `mapstructure:"requests_per_hour" json:"requests_per_hour"`
}

// Config is the immutable configuration entry for one partner. Loaded
// once at startup and never mutated.
type Config struct {
	APIKey     string        `mapstructure:"api_key" json:"-"`
	APISecret  string        `mapstructure:"api_secret" json:"-"`
	BaseURL    string        `mapstructure:"base_url" json:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	RateLimits RateLimits    `mapstructure:"rate_limits" json:"rate_limits"`
}
