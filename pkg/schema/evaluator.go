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


package schema

import (
	"context"
	"strconv"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
	"github.com/carverauto/alpaca-exporter/pkg/resolver"
)

// MaxSwitchIndices bounds the switch fan-out when a device reports an
// implausible maxswitch.
const MaxSwitchIndices = 256

const (
	nameAttribute      = "name"
	maxSwitchAttribute = "maxswitch"
	switchIDLabel      = "id"
)

// Readers hands out the cached or the direct reader. *resolver.State
// implements it.
type Readers interface {
	Reader(cached bool) resolver.Reader
}

var _ Readers = (*resolver.State)(nil)

// Target is a device that answered its liveness probe this cycle.
type Target struct {
	Device alpaca.DeviceID
	// Name is the probe result, reused for any "name" label.
	Name   alpaca.Value
	Config *DeviceConfig
}

// BaseLabels returns the labels every series of device carries.
func BaseLabels(device alpaca.DeviceID) metrics.Labels {
	return metrics.NewLabels(
		"device_type", device.Type.String(),
		"device_number", strconv.Itoa(device.Number),
	)
}

// scope is everything a label or metric resolution needs for one device, or
// one switch index of a device.
type scope struct {
	device alpaca.DeviceID
	name   alpaca.Value
	config *DeviceConfig
	labels metrics.Labels
	query  string
}

// withIndex derives the scope of switch index i from a fresh copy of s.labels.
func (s scope) withIndex(i int) scope {
	id := strconv.Itoa(i)

	s.labels = s.labels.Clone()
	s.labels.Set(switchIDLabel, id)
	s.query = switchIDLabel + "=" + id

	return s
}

// Evaluator turns a device schema into observations.
type Evaluator struct {
	global  DeviceConfig
	readers Readers
	logger  logger.Logger
}

// NewEvaluator creates an evaluator. global supplies the labels applied to
// every device.
func NewEvaluator(global DeviceConfig, readers Readers, log logger.Logger) *Evaluator {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Evaluator{global: global, readers: readers, logger: log}
}

// Evaluate resolves the labels and metrics of t. Metrics whose attribute could
// not be read are returned with an absent value. A document without metrics
// produces nothing and issues no reads.
func (e *Evaluator) Evaluate(ctx context.Context, t Target) []metrics.Observation {
	if t.Config == nil || len(t.Config.Metrics) == 0 {
		return nil
	}

	base := scope{
		device: t.Device,
		name:   t.Name,
		config: t.Config,
		labels: BaseLabels(t.Device),
	}
	base.labels = e.resolveLabels(ctx, base, e.global.Labels)

	if t.Device.Type != alpaca.Switch {
		sc := base
		sc.labels = e.resolveLabels(ctx, sc, t.Config.Labels)

		return e.resolveMetrics(ctx, sc)
	}

	count := e.switchCount(ctx, base)

	var out []metrics.Observation

	for i := 0; i < count; i++ {
		sc := base.withIndex(i)
		sc.labels = e.resolveLabels(ctx, sc, t.Config.Labels)
		out = append(out, e.resolveMetrics(ctx, sc)...)
	}

	return out
}

func (e *Evaluator) switchCount(ctx context.Context, sc scope) int {
	v := e.readers.Reader(true).Resolve(ctx, resolver.Request{
		Device:    sc.device,
		Attribute: maxSwitchAttribute,
	})

	n, ok := v.Int()
	if !ok || n < 0 {
		e.logger.Debug().Str("device", sc.device.String()).Msg("No usable maxswitch, skipping switch indices")

		return 0
	}

	if n > MaxSwitchIndices {
		e.logger.Warn().
			Str("device", sc.device.String()).
			Int("maxswitch", n).
			Int("limit", MaxSwitchIndices).
			Msg("maxswitch exceeds limit, truncating switch indices")

		return MaxSwitchIndices
	}

	return n
}

// resolveLabels returns a copy of sc.labels extended with specs. Falsy values
// are left out.
func (e *Evaluator) resolveLabels(ctx context.Context, sc scope, specs []LabelSpec) metrics.Labels {
	out := sc.labels.Clone()

	for _, spec := range specs {
		key := spec.Key()
		if key == "" {
			continue
		}

		var v alpaca.Value

		if spec.AlpacaName == nameAttribute {
			v = sc.name
		} else {
			v = e.readers.Reader(bool(spec.Cached)).Resolve(ctx, resolver.Request{
				Device:    sc.device,
				Attribute: spec.AlpacaName,
				Query:     sc.query,
			})
		}

		if !v.Truthy() {
			continue
		}

		out.Set(key, v.String())
	}

	return out
}

func (e *Evaluator) resolveMetrics(ctx context.Context, sc scope) []metrics.Observation {
	out := make([]metrics.Observation, 0, len(sc.config.Metrics))

	for _, spec := range sc.config.Metrics {
		v := e.readers.Reader(bool(spec.Cached)).Resolve(ctx, resolver.Request{
			Device:    sc.device,
			Attribute: spec.AlpacaName,
			Query:     sc.query,
		})

		var value *float64
		if f, ok := v.Float64(); ok {
			value = metrics.Sample(f)
		} else if v.Present() {
			e.logger.Debug().
				Str("device", sc.device.String()).
				Str("attribute", spec.AlpacaName).
				Str("value", v.String()).
				Msg("Non-numeric metric value treated as absent")
		}

		out = append(out, metrics.NewObservation(spec.Name(sc.config.MetricPrefix), sc.labels, value))
	}

	return out
}
