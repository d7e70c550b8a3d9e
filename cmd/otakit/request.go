package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actyme/ota-partner-kit/pkg/otaclient"
	"github.com/actyme/ota-partner-kit/pkg/types"
)

func newRequestCmd() *cobra.Command {
	var (
		method     string
		paramsJSON string
	)

	cmd := &cobra.Command{
		Use:   "request <partner> <endpoint>",
		Short: "Issue a one-off partner request and print the response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client, err := otaclient.New(cfg, otaclient.WithLogger(logger))
			if err != nil {
				return err
			}

			var params map[string]interface{}
			if paramsJSON != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("invalid --params: %w", err)
				}
			}

			resp, err := client.Request(cmd.Context(), types.Partner(args[0]), args[1], params, &types.RequestOptions{Method: method})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&method, "method", "GET", "HTTP method")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "request parameters as a JSON object")
	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every configured partner once and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client, err := otaclient.New(cfg, otaclient.WithLogger(logger))
			if err != nil {
				return err
			}

			report := client.HealthCheck(cmd.Context())
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Overall != types.HealthStatusHealthy {
				os.Exit(1)
			}
			return nil
		},
	}
}
