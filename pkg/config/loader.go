package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// OTAKIT_INTEGRATION_RETRY_ATTEMPTS overrides integration.retry_attempts.
const EnvPrefix = "OTAKIT"

// Load reads the configuration from the given file path, falling back to
// otakit.yaml in the working directory and /etc/otakit when the path is
// empty. Environment variables override file values; a missing file is
// fine and leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("otakit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/otakit")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults installs the staging defaults for every knob, including
// the three partner entries. Credentials have no defaults and come from
// the environment or the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("feature_flags.enable_ota_integration", true)

	v.SetDefault("integration.retry_attempts", 3)
	v.SetDefault("integration.retry_delay", "2s")
	v.SetDefault("integration.circuit_breaker_threshold", 5)
	v.SetDefault("integration.max_cool_down", "30m")

	v.SetDefault("fallback.enable_stub_responses", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("monitoring.health_check_interval", "60s")

	v.SetDefault("partners.booking.base_url", "https://api.booking.com/v1")
	v.SetDefault("partners.booking.timeout", "30s")
	v.SetDefault("partners.booking.rate_limits.requests_per_minute", 100)
	v.SetDefault("partners.booking.rate_limits.requests_per_hour", 5000)

	v.SetDefault("partners.expedia.base_url", "https://api.expedia.com/v3")
	v.SetDefault("partners.expedia.timeout", "30s")
	v.SetDefault("partners.expedia.rate_limits.requests_per_minute", 120)
	v.SetDefault("partners.expedia.rate_limits.requests_per_hour", 6000)

	v.SetDefault("partners.airbnb.base_url", "https://api.airbnb.com/v2")
	v.SetDefault("partners.airbnb.timeout", "25s")
	v.SetDefault("partners.airbnb.rate_limits.requests_per_minute", 80)
	v.SetDefault("partners.airbnb.rate_limits.requests_per_hour", 4000)
}
