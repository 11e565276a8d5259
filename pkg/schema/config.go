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


// Package schema loads the per-device-type metric documents and evaluates
// them against a connected device.
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"gopkg.in/yaml.v3"
)

// GlobalDocument is the stem of the document whose labels apply to every device.
const GlobalDocument = "global"

var (
	errReadSchemaDir  = errors.New("failed to read schema directory")
	errParseDocument  = errors.New("failed to parse schema document")
	errInvalidCached  = errors.New("cached must be a boolean or an integer")
	errMissingAttrRef = errors.New("alpaca_name is required")
)

// Flag is a YAML switch that accepts either a boolean or an integer, where
// any positive integer means on.
type Flag bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		*f = Flag(b)

		return nil
	}

	var n int
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("%w: line %d", errInvalidCached, node.Line)
	}

	*f = n > 0

	return nil
}

// LabelSpec maps a device attribute to a label.
type LabelSpec struct {
	AlpacaName string `yaml:"alpaca_name"`
	LabelName  string `yaml:"label_name,omitempty"`
	Cached     Flag   `yaml:"cached,omitempty"`
}

// Key returns the label key, defaulting to the attribute name.
func (l LabelSpec) Key() string {
	if l.LabelName != "" {
		return l.LabelName
	}

	return l.AlpacaName
}

// MetricSpec maps a device attribute to a gauge.
type MetricSpec struct {
	AlpacaName string `yaml:"alpaca_name"`
	MetricName string `yaml:"metric_name,omitempty"`
	Cached     Flag   `yaml:"cached,omitempty"`
}

// Name returns the gauge name for this metric under prefix.
func (m MetricSpec) Name(prefix string) string {
	if m.MetricName != "" {
		return prefix + m.MetricName
	}

	return prefix + m.AlpacaName
}

// DeviceConfig is one schema document.
type DeviceConfig struct {
	MetricPrefix string       `yaml:"metric_prefix,omitempty"`
	Labels       []LabelSpec  `yaml:"labels,omitempty"`
	Metrics      []MetricSpec `yaml:"metrics,omitempty"`
}

// Validate checks that every entry names an attribute.
func (c *DeviceConfig) Validate() error {
	for i, l := range c.Labels {
		if l.AlpacaName == "" {
			return fmt.Errorf("labels[%d]: %w", i, errMissingAttrRef)
		}
	}

	for i, m := range c.Metrics {
		if m.AlpacaName == "" {
			return fmt.Errorf("metrics[%d]: %w", i, errMissingAttrRef)
		}
	}

	return nil
}

// Schemas is the loaded configuration: one optional global document and one
// document per device type.
type Schemas struct {
	Global  DeviceConfig
	Devices map[alpaca.DeviceType]*DeviceConfig
}

// For returns the document of t. A type without a document gets an empty one,
// which yields no metrics.
func (s *Schemas) For(t alpaca.DeviceType) *DeviceConfig {
	if c, ok := s.Devices[t]; ok {
		return c
	}

	return &DeviceConfig{}
}

// Types lists the device types that have a document, in name order.
func (s *Schemas) Types() []alpaca.DeviceType {
	out := make([]alpaca.DeviceType, 0, len(s.Devices))
	for t := range s.Devices {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Parse decodes a single document.
func Parse(data []byte) (*DeviceConfig, error) {
	var c DeviceConfig

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", errParseDocument, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads every *.yaml or *.yml file in dir. The file stem selects the
// device type; "global" holds the shared labels. Files for unknown types are
// logged and ignored.
func Load(dir string, log logger.Logger) (*Schemas, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadSchemaDir, err)
	}

	s := &Schemas{Devices: make(map[alpaca.DeviceType]*DeviceConfig)}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), ext)
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errReadSchemaDir, err)
		}

		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		if stem == GlobalDocument {
			s.Global = *c

			continue
		}

		t, err := alpaca.ParseDeviceType(stem)
		if err != nil {
			log.Warn().Str("file", path).Msg("Ignoring schema for unsupported device type")

			continue
		}

		s.Devices[t] = c

		log.Debug().
			Str("device_type", t.String()).
			Int("labels", len(c.Labels)).
			Int("metrics", len(c.Metrics)).
			Msg("Loaded schema")
	}

	return s, nil
}
