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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttachMeter mirrors every family, existing and future, as an OTel
// observable instrument whose callback reports the registry's current series.
func (r *Registry) AttachMeter(meter metric.Meter) {
	r.mu.Lock()
	r.meter = meter

	existing := make(map[kind][]string)
	for k, fams := range r.families {
		for name := range fams {
			existing[k] = append(existing[k], name)
		}
	}

	r.mu.Unlock()

	for k, names := range existing {
		for _, name := range names {
			r.instrument(k, name)
		}
	}
}

func (r *Registry) instrument(k kind, name string) {
	r.mu.RLock()
	meter := r.meter
	r.mu.RUnlock()

	if meter == nil {
		return
	}

	var err error

	switch k {
	case kindGauge:
		_, err = meter.Float64ObservableGauge(name,
			metric.WithDescription(gaugeHelp),
			metric.WithFloat64Callback(r.observe(k, name)))
	case kindCounter:
		_, err = meter.Float64ObservableCounter(name,
			metric.WithDescription(counterHelp),
			metric.WithFloat64Callback(r.observe(k, name)))
	}

	if err != nil {
		r.logger.Warn().Err(err).Str("name", name).Str("kind", k.String()).Msg("Failed to create OTel instrument")
	}
}

func (r *Registry) observe(k kind, name string) metric.Float64Callback {
	return func(_ context.Context, o metric.Float64Observer) error {
		for _, s := range r.snapshot(k, name) {
			attrs := make([]attribute.KeyValue, len(s.Labels))
			for i, l := range s.Labels {
				attrs[i] = attribute.String(l.Key, l.Value)
			}

			o.Observe(s.Value, metric.WithAttributes(attrs...))
		}

		return nil
	}
}
