/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/config"
	"github.com/carverauto/alpaca-exporter/pkg/exporter"
	"github.com/carverauto/alpaca-exporter/pkg/lifecycle"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
	"github.com/carverauto/alpaca-exporter/pkg/models"
	"github.com/carverauto/alpaca-exporter/pkg/version"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

const serviceName = "alpaca-exporter"

var errFailedToLoadConfig = errors.New("failed to load config")

// options holds the command line flags. Flags that were set override the
// config file.
type options struct {
	configPath  string
	port        int
	baseURL     string
	refreshRate int
	discover    bool
	schemaDir   string
	debug       bool
	devices     map[alpaca.DeviceType]*[]int
}

func main() {
	if err := newRootCommand(run).Execute(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// newRootCommand builds the CLI. runFn receives the validated config.
func newRootCommand(runFn func(context.Context, *exporter.Config) error) *cobra.Command {
	opts := &options{devices: make(map[alpaca.DeviceType]*[]int)}

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Export ASCOM Alpaca device state as Prometheus metrics",
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}

			return runFn(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	flags.IntVar(&opts.port, "port", 9876, "port to expose metrics on")
	flags.StringVar(&opts.baseURL, "alpaca_base_url", alpaca.DefaultBaseURL,
		"base alpaca v1 api (trailing slash will be stripped)")
	flags.IntVar(&opts.refreshRate, "refresh_rate", 5, "seconds between refreshing metrics")
	flags.BoolVar(&opts.discover, "discover", false,
		"automatically discover all configured devices via the Alpaca Management API")
	flags.StringVar(&opts.schemaDir, "schema-dir", "config/", "directory holding the metric schema documents")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	for _, t := range alpaca.DeviceTypes() {
		numbers := new([]int)
		opts.devices[t] = numbers
		flags.IntSliceVar(numbers, t.String(), nil, t.String()+" device number (repeatable)")
	}

	return cmd
}

// buildConfig loads the optional config file and applies the flags that were
// set on top of it.
func buildConfig(cmd *cobra.Command, opts *options) (*exporter.Config, error) {
	var cfg exporter.Config

	if err := config.NewConfig(nil).Load(cmd.Context(), opts.configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	flags := cmd.Flags()

	if flags.Changed("port") || cfg.ListenAddr == "" {
		cfg.ListenAddr = net.JoinHostPort("", strconv.Itoa(opts.port))
	}

	if flags.Changed("alpaca_base_url") || cfg.AlpacaBaseURL == "" {
		cfg.AlpacaBaseURL = opts.baseURL
	}

	if flags.Changed("refresh_rate") || cfg.PollInterval == 0 {
		cfg.PollInterval = models.Duration(time.Duration(opts.refreshRate) * time.Second)
	}

	if flags.Changed("discover") {
		cfg.Discover = opts.discover
	}

	if flags.Changed("schema-dir") || cfg.SchemaDir == "" {
		cfg.SchemaDir = opts.schemaDir
	}

	if opts.debug {
		if cfg.Logging == nil {
			cfg.Logging = logger.DefaultConfig()
		}

		cfg.Logging.Debug = true
	}

	for t, numbers := range opts.devices {
		if !flags.Changed(t.String()) {
			continue
		}

		if cfg.Devices == nil {
			cfg.Devices = make(map[string][]int)
		}

		cfg.Devices[t.String()] = append([]int(nil), *numbers...)
	}

	if err := config.ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	return &cfg, nil
}

func run(ctx context.Context, cfg *exporter.Config) error {
	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	exporterLogger, err := lifecycle.CreateComponentLogger(serviceName, logConfig)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry(metrics.RegistryConfig{
		Host:   cfg.Metrics.Host,
		Logger: exporterLogger,
	})

	provider, err := metrics.InitializeMetrics(ctx, cfg.Metrics.OTel)
	switch {
	case err == nil:
		registry.AttachMeter(provider.Meter(metrics.MeterName))

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := metrics.ShutdownMetrics(shutdownCtx); err != nil {
				exporterLogger.Warn().Err(err).Msg("Failed to shut down OTel metrics")
			}
		}()
	case errors.Is(err, metrics.ErrOTelMetricsDisabled):
	default:
		return fmt.Errorf("failed to initialize OTel metrics: %w", err)
	}

	exp, err := exporter.New(cfg, registry, nil, exporterLogger)
	if err != nil {
		return err
	}

	defer func() { _ = exp.Close() }()

	handler := registry.Handler()

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: serviceName,
		Service:     exp,
		Logger:      exporterLogger,
		Routes: []lifecycle.RouteRegistrar{func(r *mux.Router) {
			r.Handle("/metrics", handler)
			r.Handle("/", handler)
		}},
	})
}
