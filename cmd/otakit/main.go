// Command otakit operates the OTA partner integration client: it can
// serve the health/metrics HTTP surface, issue one-off partner requests,
// and run the partner health probe.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/actyme/ota-partner-kit/pkg/config"
)

var cfgPath string

func main() {
	// Best effort; credentials usually arrive through the environment.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "otakit",
		Short:         "Resilient client for OTA partner APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: otakit.yaml)")

	root.AddCommand(newServeCmd(), newRequestCmd(), newHealthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration for a subcommand.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// buildLogger constructs the zap logger described by the logging config.
func buildLogger(lc config.Logging) (*zap.Logger, error) {
	var cfg zap.Config
	if lc.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	cfg.Level = level

	return cfg.Build()
}
