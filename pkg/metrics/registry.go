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

// Package metrics holds the exporter's observation model and the in-memory
// series registry that backs the Prometheus and OTLP exposition.
package metrics

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"go.opentelemetry.io/otel/metric"
)

// HostLabel is added to every series to identify the exporting process.
const HostLabel = "host"

type kind int

const (
	kindGauge kind = iota
	kindCounter
)

func (k kind) String() string {
	if k == kindCounter {
		return "counter"
	}

	return "gauge"
}

type series struct {
	labels []Label
	value  float64
}

type family struct {
	name   string
	kind   kind
	series map[string]*series
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Host overrides the host label value. Empty means the lower-cased hostname.
	Host   string
	Logger logger.Logger
}

// Registry is a Sink that keeps the current value of every series in memory.
// Families are created on first use and each series carries its own label
// dimensions. It is safe for concurrent use by the poll loop and scrapers.
type Registry struct {
	mu       sync.RWMutex
	families map[kind]map[string]*family
	clashes  map[string]struct{}
	host     string
	meter    metric.Meter
	logger   logger.Logger
}

var _ Sink = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	host := cfg.Host
	if host == "" {
		host = defaultHost()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Registry{
		families: map[kind]map[string]*family{
			kindGauge:   {},
			kindCounter: {},
		},
		clashes: make(map[string]struct{}),
		host:   strings.ToLower(host),
		logger: log,
	}
}

func defaultHost() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
}

// Host returns the value used for the host label.
func (r *Registry) Host() string {
	return r.host
}

func (r *Registry) enrich(labels Labels) Labels {
	out := labels.Clone()
	if !out.Has(HostLabel) {
		out.Set(HostLabel, r.host)
	}

	return out
}

// Set implements Sink.
func (r *Registry) Set(name string, value *float64, labels Labels) SetResult {
	enriched := r.enrich(labels)
	key := enriched.Identity()

	r.mu.Lock()

	fam, created := r.familyLocked(kindGauge, name, value != nil)
	if fam == nil {
		report := value != nil && r.clashLocked(kindGauge, name)
		r.mu.Unlock()

		if report {
			r.logClash(kindGauge, name)
		}

		return SetNoop
	}

	result := SetUpdated

	if value == nil {
		if _, ok := fam.series[key]; ok {
			delete(fam.series, key)

			result = SetCleared
		} else {
			result = SetNoop
		}
	} else {
		fam.series[key] = &series{labels: enriched.Sorted(), value: *value}
	}

	r.mu.Unlock()

	if created {
		r.logger.Debug().Str("name", name).Strs("labels", enriched.Keys()).Msg("Creating gauge")
		r.instrument(kindGauge, name)
	}

	return result
}

// Inc implements Sink.
func (r *Registry) Inc(name string, labels Labels) {
	enriched := r.enrich(labels)
	key := enriched.Identity()

	r.mu.Lock()

	fam, created := r.familyLocked(kindCounter, name, true)
	if fam == nil {
		report := r.clashLocked(kindCounter, name)
		r.mu.Unlock()

		if report {
			r.logClash(kindCounter, name)
		}

		return
	}

	s, ok := fam.series[key]
	if !ok {
		s = &series{labels: enriched.Sorted()}
		fam.series[key] = s
	}

	s.value++

	r.mu.Unlock()

	if created {
		r.logger.Debug().Str("name", name).Msg("Creating counter")
		r.instrument(kindCounter, name)
	}
}

// familyLocked looks up a family, creating it when create is set. A name
// already taken by the other kind is never created. r.mu must be held.
func (r *Registry) familyLocked(k kind, name string, create bool) (*family, bool) {
	if fam, ok := r.families[k][name]; ok {
		return fam, false
	}

	if !create || r.takenLocked(k, name) {
		return nil, false
	}

	fam := &family{name: name, kind: k, series: make(map[string]*series)}
	r.families[k][name] = fam

	return fam, true
}

func (r *Registry) takenLocked(k kind, name string) bool {
	for other, fams := range r.families {
		if other == k {
			continue
		}

		if _, ok := fams[name]; ok {
			return true
		}
	}

	return false
}

// clashLocked reports whether a rejected write was caused by a kind clash that
// has not been reported yet. r.mu must be held.
func (r *Registry) clashLocked(k kind, name string) bool {
	if !r.takenLocked(k, name) {
		return false
	}

	if _, seen := r.clashes[name]; seen {
		return false
	}

	r.clashes[name] = struct{}{}

	return true
}

func (r *Registry) logClash(k kind, name string) {
	r.logger.Warn().
		Str("name", name).
		Str("kind", k.String()).
		Msg("Metric name already registered with a different kind, dropping writes")
}

// SeriesSample is a point-in-time copy of one series.
type SeriesSample struct {
	Name   string
	Labels []Label
	Value  float64
}

// Gauge returns the current value of a gauge series, if present.
func (r *Registry) Gauge(name string, labels Labels) (float64, bool) {
	return r.lookup(kindGauge, name, labels)
}

// Counter returns the current value of a counter series, if present.
func (r *Registry) Counter(name string, labels Labels) (float64, bool) {
	return r.lookup(kindCounter, name, labels)
}

func (r *Registry) lookup(k kind, name string, labels Labels) (float64, bool) {
	key := r.enrich(labels).Identity()

	r.mu.RLock()
	defer r.mu.RUnlock()

	fam, ok := r.families[k][name]
	if !ok {
		return 0, false
	}

	s, ok := fam.series[key]
	if !ok {
		return 0, false
	}

	return s.value, true
}

// Len counts live series across gauges and counters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0

	for _, fams := range r.families {
		for _, fam := range fams {
			total += len(fam.series)
		}
	}

	return total
}

func (r *Registry) snapshot(k kind, name string) []SeriesSample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fam, ok := r.families[k][name]
	if !ok {
		return nil
	}

	return samplesOf(fam)
}

// snapshotAll copies every family of kind k, ordered by name and series identity.
func (r *Registry) snapshotAll(k kind) []SeriesSample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.families[k]))
	for name := range r.families[k] {
		names = append(names, name)
	}

	sort.Strings(names)

	var out []SeriesSample
	for _, name := range names {
		out = append(out, samplesOf(r.families[k][name])...)
	}

	return out
}

func samplesOf(fam *family) []SeriesSample {
	keys := make([]string, 0, len(fam.series))
	for key := range fam.series {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]SeriesSample, 0, len(keys))

	for _, key := range keys {
		s := fam.series[key]
		out = append(out, SeriesSample{
			Name:   fam.name,
			Labels: append([]Label(nil), s.labels...),
			Value:  s.value,
		})
	}

	return out
}
