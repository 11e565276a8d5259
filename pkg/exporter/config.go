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


package exporter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
	"github.com/carverauto/alpaca-exporter/pkg/models"
)

var (
	errDiscoverWithDevices = errors.New("cannot use discovery with explicit device specifications")
	errNoDevices           = errors.New("must enable discovery or configure at least one device")
	errNegativeInterval    = errors.New("poll_interval must not be negative")
)

const (
	defaultListenAddr   = ":9876"
	defaultPollInterval = 5 * time.Second
	defaultSchemaDir    = "config/"
)

// MetricsConfig configures the exposition side.
type MetricsConfig struct {
	// Host overrides the host label. Empty means the lower-cased hostname.
	Host string              `json:"host,omitempty"`
	OTel *metrics.OTelConfig `json:"otel,omitempty"`
}

// Config represents exporter configuration.
type Config struct {
	AlpacaBaseURL  string           `json:"alpaca_base_url"`
	ListenAddr     string           `json:"listen_addr"`
	PollInterval   models.Duration  `json:"poll_interval"`
	RequestTimeout models.Duration  `json:"request_timeout,omitempty"`
	Discover       bool             `json:"discover"`
	Devices        map[string][]int `json:"devices,omitempty"`
	SchemaDir      string           `json:"schema_dir"`
	CacheSize      int              `json:"cache_size,omitempty"`
	CacheTTL       models.Duration  `json:"cache_ttl,omitempty"`
	Logging        *logger.Config   `json:"logging,omitempty"`
	Metrics        MetricsConfig    `json:"metrics"`
}

// Validate implements config.Validator interface. It fills in defaults.
func (c *Config) Validate() error {
	c.AlpacaBaseURL = strings.TrimRight(c.AlpacaBaseURL, "/")
	if c.AlpacaBaseURL == "" {
		c.AlpacaBaseURL = alpaca.DefaultBaseURL
	}

	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.SchemaDir == "" {
		c.SchemaDir = defaultSchemaDir
	}

	if time.Duration(c.PollInterval) < 0 {
		return errNegativeInterval
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if time.Duration(c.RequestTimeout) <= 0 {
		c.RequestTimeout = models.Duration(alpaca.DefaultRequestTimeout)
	}

	hasDevices := false

	for _, numbers := range c.Devices {
		if len(numbers) > 0 {
			hasDevices = true
		}
	}

	if c.Discover && hasDevices {
		return errDiscoverWithDevices
	}

	if !c.Discover && !hasDevices {
		return errNoDevices
	}

	_, err := c.Inventory()

	return err
}

// Inventory returns the statically configured devices.
func (c *Config) Inventory() (alpaca.Inventory, error) {
	inv := alpaca.Inventory{}

	for name, numbers := range c.Devices {
		t, err := alpaca.ParseDeviceType(name)
		if err != nil {
			return nil, err
		}

		for _, n := range numbers {
			id, err := alpaca.NewDeviceID(t, n)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			inv.Add(id.Type, id.Number)
		}
	}

	return inv, nil
}
