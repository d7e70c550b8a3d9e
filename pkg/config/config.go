// Package config loads and validates the OTA partner kit configuration
// from a YAML file, environment variables, and built-in defaults.
package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/actyme/ota-partner-kit/pkg/partners"
)

// Config is the root configuration for the partner kit.
type Config struct {
	Partners     map[string]partners.Config `mapstructure:"partners"`
	FeatureFlags FeatureFlags               `mapstructure:"feature_flags"`
	Integration  Integration                `mapstructure:"integration"`
	Fallback     Fallback                   `mapstructure:"fallback"`
	Logging      Logging                    `mapstructure:"logging"`
	Monitoring   Monitoring                 `mapstructure:"monitoring"`
}

// FeatureFlags gates whole subsystems on and off.
type FeatureFlags struct {
	EnableOTAIntegration bool `mapstructure:"enable_ota_integration"`
}

// Integration holds the retry and circuit-breaker policy knobs shared by
// all partners.
type Integration struct {
	RetryAttempts           int           `mapstructure:"retry_attempts"`
	RetryDelay              time.Duration `mapstructure:"retry_delay"`
	CircuitBreakerThreshold int           `mapstructure:"circuit_breaker_threshold"`

	// MaxCoolDown caps the breaker's compounding cool-down. Zero
	// reproduces the original unbounded growth.
	MaxCoolDown time.Duration `mapstructure:"max_cool_down"`
}

// Fallback controls the synthetic stub responses served when live
// integration is exhausted or disabled.
type Fallback struct {
	EnableStubResponses bool `mapstructure:"enable_stub_responses"`
}

// Logging configures the zap logger built by the CLI.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Monitoring configures the periodic health probe loop.
type Monitoring struct {
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
}

// Validate checks the loaded configuration. Partner entries must carry a
// base URL, a positive timeout, and positive rate limits; the shared
// integration policy must have a positive attempt budget.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Integration,
			validation.By(func(value interface{}) error {
				ic, ok := value.(Integration)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an Integration")
				}
				return validation.ValidateStruct(&ic,
					validation.Field(&ic.RetryAttempts, validation.Required, validation.Min(1)),
					validation.Field(&ic.RetryDelay, validation.Min(time.Duration(0))),
					validation.Field(&ic.CircuitBreakerThreshold, validation.Required, validation.Min(1)),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(Logging)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a Logging")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.In("debug", "info", "warn", "error"),
					),
					validation.Field(&lc.Format,
						validation.In("json", "console"),
					),
				)
			}),
		),
	)
	if err != nil {
		return err
	}

	for name, pc := range c.Partners {
		if err := validatePartner(pc); err != nil {
			return fmt.Errorf("partner %q: %w", name, err)
		}
	}
	return nil
}

// validatePartner checks one partner entry. API keys are deliberately
// not required here: a missing key surfaces at request time as an
// unconfigured-partner error, matching the staged-credentials rollout.
func validatePartner(pc partners.Config) error {
	return validation.ValidateStruct(&pc,
		validation.Field(&pc.BaseURL, validation.Required, is.URL),
		validation.Field(&pc.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&pc.RateLimits,
			validation.By(func(value interface{}) error {
				rl, ok := value.(partners.RateLimits)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a RateLimits")
				}
				return validation.ValidateStruct(&rl,
					validation.Field(&rl.RequestsPerMinute, validation.Required, validation.Min(1)),
					validation.Field(&rl.RequestsPerHour, validation.Required, validation.Min(1)),
				)
			}),
		),
	)
}
