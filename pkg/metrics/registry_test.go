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
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestLabels_OrderAndIdentity(t *testing.T) {
	a := NewLabels("device_type", "telescope", "device_number", "0")
	b := NewLabels("device_number", "0", "device_type", "telescope")

	assert.Equal(t, []string{"device_type", "device_number"}, a.Keys())
	assert.Equal(t, a.Identity(), b.Identity(), "identity must not depend on insertion order")

	a.Set("device_type", "dome")
	assert.Equal(t, []string{"device_type", "device_number"}, a.Keys(), "replacing keeps position")

	v, ok := a.Get("device_type")
	require.True(t, ok)
	assert.Equal(t, "dome", v)
}

func TestLabels_CloneIsIndependent(t *testing.T) {
	base := NewLabels("a", "1")
	clone := base.Clone()
	clone.Set("a", "2")
	clone.Set("b", "3")

	v, _ := base.Get("a")
	assert.Equal(t, "1", v)
	assert.False(t, base.Has("b"))
}

func TestLabels_IdentityEscapes(t *testing.T) {
	a := NewLabels("k", `x",y="z`)
	b := NewLabels("k", "x", "y", "z")

	assert.NotEqual(t, a.Identity(), b.Identity())
}

func TestObservation_IdentityExcludesValue(t *testing.T) {
	labels := NewLabels("a", "1")
	o1 := NewObservation("m", labels, Sample(1))
	o2 := NewObservation("m", labels, nil)

	assert.Equal(t, o1.Identity(), o2.Identity())

	labels.Set("a", "2")
	v, _ := o1.Labels.Get("a")
	assert.Equal(t, "1", v, "observation keeps a snapshot of the labels")
}

func TestRegistry_SetAndClear(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "Observatory"})
	labels := NewLabels("device_type", "dome", "device_number", "0")

	assert.Equal(t, SetNoop, r.Set("alpaca_dome_azimuth", nil, labels), "clearing a missing series is a no-op")
	assert.Equal(t, SetUpdated, r.Set("alpaca_dome_azimuth", Sample(0), labels))

	v, ok := r.Gauge("alpaca_dome_azimuth", labels)
	require.True(t, ok)
	assert.Zero(t, v)

	enriched := labels.Clone()
	enriched.Set(HostLabel, "observatory")
	_, ok = r.Gauge("alpaca_dome_azimuth", enriched)
	assert.True(t, ok, "host label is added with the lower-cased host name")

	assert.Equal(t, SetCleared, r.Set("alpaca_dome_azimuth", nil, labels))
	_, ok = r.Gauge("alpaca_dome_azimuth", labels)
	assert.False(t, ok)
	assert.Equal(t, SetNoop, r.Set("alpaca_dome_azimuth", nil, labels))
}

func TestRegistry_DynamicLabelSchemas(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})

	r.Set("alpaca_switch_value", Sample(1), NewLabels("device_type", "switch", "id", "0"))
	r.Set("alpaca_switch_value", Sample(2), NewLabels("device_type", "switch", "id", "1", "name", "Heater"))

	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Inc(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})
	labels := NewLabels("attribute", "name")

	r.Inc("alpaca_success_total", labels)
	r.Inc("alpaca_success_total", labels)

	v, ok := r.Counter("alpaca_success_total", labels)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestRegistry_KindClashIsRejected(t *testing.T) {
	var logs bytes.Buffer

	r := NewRegistry(RegistryConfig{Host: "h", Logger: logger.Wrap(zerolog.New(&logs))})
	labels := NewLabels("attribute", "name")

	assert.Equal(t, SetUpdated, r.Set("dup", Sample(3), labels))
	r.Inc("dup", labels)
	r.Inc("dup", labels)

	_, ok := r.Counter("dup", labels)
	assert.False(t, ok, "a gauge name cannot become a counter")

	v, ok := r.Gauge("dup", labels)
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-9)

	r.Inc("hits", labels)
	assert.Equal(t, SetNoop, r.Set("hits", Sample(1), labels))
	assert.Equal(t, SetNoop, r.Set("hits", nil, labels))

	_, ok = r.Gauge("hits", labels)
	assert.False(t, ok)
	assert.Equal(t, 2, strings.Count(logs.String(), "different kind"), "each clash is logged once")
}

func TestRegistry_HostLabelNotOverwritten(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})
	labels := NewLabels(HostLabel, "other")

	r.Set("m", Sample(1), labels)

	samples := r.snapshot(kindGauge, "m")
	require.Len(t, samples, 1)
	assert.Equal(t, []Label{{Key: HostLabel, Value: "other"}}, samples[0].Labels)
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})
	r.Set("alpaca_device_connected", Sample(1), NewLabels("device_type", "telescope", "device_number", "0"))
	r.Set("alpaca_telescope_altitude", Sample(42.5), NewLabels("device_type", "telescope", "device_number", "0"))
	r.Set("bad name", Sample(1), NewLabels())
	r.Inc("alpaca_error_total", NewLabels("attribute", "altitude"))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `alpaca_device_connected{device_number="0",device_type="telescope",host="h"} 1`)
	assert.Contains(t, text, `alpaca_telescope_altitude{device_number="0",device_type="telescope",host="h"} 42.5`)
	assert.Contains(t, text, `alpaca_error_total{attribute="altitude",host="h"} 1`)
	assert.NotContains(t, text, "bad name")
}

func TestRegistry_CollectTypes(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})
	r.Set("alpaca_focuser_position", Sample(1200), NewLabels("device_type", "focuser", "device_number", "0"))
	r.Inc("alpaca_success_total", NewLabels("attribute", "position"))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(r))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	position, ok := byName["alpaca_focuser_position"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_GAUGE, position.GetType())
	require.Len(t, position.GetMetric(), 1)
	assert.InDelta(t, 1200.0, position.GetMetric()[0].GetGauge().GetValue(), 1e-9)

	success, ok := byName["alpaca_success_total"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_COUNTER, success.GetType())
	require.Len(t, success.GetMetric(), 1)
	assert.InDelta(t, 1.0, success.GetMetric()[0].GetCounter().GetValue(), 1e-9)
}

func TestRegistry_AttachMeter(t *testing.T) {
	r := NewRegistry(RegistryConfig{Host: "h"})
	labels := NewLabels("device_type", "focuser", "device_number", "1")

	r.Set("alpaca_focuser_position", Sample(1200), labels)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r.AttachMeter(provider.Meter(MeterName))
	r.Inc("alpaca_success_total", labels)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	gauge, ok := byName["alpaca_focuser_position"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 1200.0, gauge.DataPoints[0].Value, 1e-9)

	host, ok := gauge.DataPoints[0].Attributes.Value(HostLabel)
	require.True(t, ok)
	assert.Equal(t, "h", host.AsString())

	counter, ok := byName["alpaca_success_total"].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, counter.DataPoints, 1)
	assert.InDelta(t, 1.0, counter.DataPoints[0].Value, 1e-9)

	r.Set("alpaca_focuser_position", nil, labels)

	rm = metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name == "alpaca_focuser_position" {
			assert.Empty(t, m.Data.(metricdata.Gauge[float64]).DataPoints, "cleared series disappear from the mirror")
		}
	}
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	_, err := InitializeMetrics(context.Background(), &OTelConfig{Enabled: false})
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)

	_, err = InitializeMetrics(context.Background(), nil)
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)
}
