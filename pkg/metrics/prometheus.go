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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	gaugeHelp   = "Gauge published by alpaca-exporter."
	counterHelp = "Counter published by alpaca-exporter."
)

var _ prometheus.Collector = (*Registry)(nil)

// Describe implements prometheus.Collector. Nothing is sent, which makes the
// registry an unchecked collector: label dimensions are only known per series.
func (*Registry) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	collectKind(ch, r.snapshotAll(kindGauge), prometheus.GaugeValue, gaugeHelp)
	collectKind(ch, r.snapshotAll(kindCounter), prometheus.CounterValue, counterHelp)
}

func collectKind(ch chan<- prometheus.Metric, samples []SeriesSample, vt prometheus.ValueType, help string) {
	for _, s := range samples {
		keys := make([]string, len(s.Labels))
		values := make([]string, len(s.Labels))

		for i, l := range s.Labels {
			keys[i] = l.Key
			values[i] = l.Value
		}

		desc := prometheus.NewDesc(s.Name, help, keys, nil)

		m, err := prometheus.NewConstMetric(desc, vt, s.Value, values...)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(desc, err)
			continue
		}

		ch <- m
	}
}

// Handler serves the registry in the Prometheus exposition format. A series
// with an invalid name or label is reported and skipped instead of failing the
// whole scrape.
func (r *Registry) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(r)

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
