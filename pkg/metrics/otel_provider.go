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

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/models"
	"github.com/carverauto/alpaca-exporter/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// Static errors to match err113 guidance.
var (
	ErrOTelMetricsDisabled = errors.New("OTel metrics exporter disabled")
	errAppendCACert        = errors.New("failed to append CA certificate")
)

const (
	defaultServiceName    = "alpaca-exporter"
	defaultExportInterval = 15 * time.Second
	// MeterName is the instrumentation scope used for the registry mirror.
	MeterName = "github.com/carverauto/alpaca-exporter"
)

// meterProvider tracks the global metrics provider so we can shut it down cleanly.
//
//nolint:gochecknoglobals // global state is required for coordinated shutdown
var meterProvider *sdkmetric.MeterProvider

//nolint:gochecknoglobals // package-level guard for init logic
var meterMu sync.Mutex

// OTelConfig enables the optional OTLP/gRPC mirror of the registry.
type OTelConfig struct {
	Enabled        bool              `json:"enabled"`
	Endpoint       string            `json:"endpoint"`
	Headers        map[string]string `json:"headers,omitempty"`
	ServiceName    string            `json:"service_name,omitempty"`
	ServiceVersion string            `json:"service_version,omitempty"`
	ExportInterval models.Duration   `json:"export_interval,omitempty"`
	Insecure       bool              `json:"insecure"`
	TLS            *TLSConfig        `json:"tls,omitempty"`
}

type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file,omitempty"`
}

// InitializeMetrics configures the global MeterProvider with an OTLP exporter.
//
// It is safe to call this multiple times; subsequent calls return the already
// initialised provider. If exporting is disabled it returns ErrOTelMetricsDisabled.
func InitializeMetrics(ctx context.Context, config *OTelConfig) (*sdkmetric.MeterProvider, error) {
	if config == nil || !config.Enabled || config.Endpoint == "" {
		return nil, ErrOTelMetricsDisabled
	}

	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider != nil {
		return meterProvider, nil
	}

	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	serviceVersion := config.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version.GetVersion()
	}

	opts, err := exporterOptions(config)
	if err != nil {
		return nil, err
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics resource: %w", err)
	}

	interval := time.Duration(config.ExportInterval)
	if interval <= 0 {
		interval = defaultExportInterval
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(interval),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	otel.SetMeterProvider(provider)
	meterProvider = provider

	return meterProvider, nil
}

// ShutdownMetrics flushes and stops the metrics pipeline.
func ShutdownMetrics(ctx context.Context) error {
	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider == nil {
		return nil
	}

	if err := meterProvider.Shutdown(ctx); err != nil {
		return err
	}

	meterProvider = nil

	return nil
}

func setupTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errAppendCACert
		}

		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// exporterOptions builds the OTLP/gRPC exporter options. The export
// connection is instrumented with otelgrpc through the global meter provider.
func exporterOptions(config *OTelConfig) ([]otlpmetricgrpc.Option, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(config.Endpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithStatsHandler(otelgrpc.NewClientHandler())),
	}

	if config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if config.TLS != nil {
		tlsConfig, err := setupTLSConfig(config.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to setup metrics TLS configuration: %w", err)
		}

		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(config.Headers))
	}

	return opts, nil
}
