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


// Package exporter runs the poll loop: it refreshes the device list, probes
// every device, evaluates its schema, publishes the observations and retracts
// series that disappeared since the previous cycle.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
	"github.com/carverauto/alpaca-exporter/pkg/reconcile"
	"github.com/carverauto/alpaca-exporter/pkg/resolver"
	"github.com/carverauto/alpaca-exporter/pkg/schema"
	"github.com/carverauto/alpaca-exporter/pkg/tracker"
	"github.com/google/uuid"
)

const (
	// ConnectedGauge is 1 while a device answers its liveness probe and 0 after.
	ConnectedGauge = "alpaca_device_connected"
	// NameGauge is an info series carrying the device name as a label.
	NameGauge = "alpaca_device_name"

	nameAttribute = "name"
	nameLabel     = "name"
)

var errCyclePanic = errors.New("device processing panicked")

// Exporter polls Alpaca devices and publishes their metrics to a sink.
type Exporter struct {
	config    Config
	clock     Clock
	source    DeviceSource
	static    alpaca.Inventory
	known     alpaca.Inventory
	state     *resolver.State
	schemas   *schema.Schemas
	evaluator *schema.Evaluator
	tracker   *tracker.Tracker
	sink      metrics.Sink
	logger    logger.Logger

	cycleMu  sync.Mutex
	previous *reconcile.Cycle

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates an exporter from a validated config. Schemas are loaded from
// cfg.SchemaDir.
func New(cfg *Config, sink metrics.Sink, clock Clock, log logger.Logger) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exporter config: %w", err)
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	if clock == nil {
		clock = realClock{}
	}

	schemas, err := schema.Load(cfg.SchemaDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}

	static, err := cfg.Inventory()
	if err != nil {
		return nil, err
	}

	client := alpaca.NewClient(alpaca.ClientConfig{
		BaseURL: cfg.AlpacaBaseURL,
		Timeout: time.Duration(cfg.RequestTimeout),
		Logger:  log,
	})

	state := resolver.NewState(resolver.Config{
		Getter:    client,
		Sink:      sink,
		Logger:    log,
		CacheSize: cfg.CacheSize,
		CacheTTL:  time.Duration(cfg.CacheTTL),
	})

	e := &Exporter{
		config:    *cfg,
		clock:     clock,
		static:    static,
		known:     alpaca.Inventory{},
		state:     state,
		schemas:   schemas,
		evaluator: schema.NewEvaluator(schemas.Global, state, log),
		tracker:   tracker.New(),
		sink:      sink,
		logger:    log,
		done:      make(chan struct{}),
	}

	if cfg.Discover {
		e.source = alpaca.Discoverer{Client: client}
	}

	return e, nil
}

// Start runs a first cycle immediately and then one per poll interval until
// ctx is cancelled or Stop is called. Cycles run on the calling goroutine, so
// a slow cycle delays the next tick instead of overlapping it.
func (e *Exporter) Start(ctx context.Context) error {
	interval := time.Duration(e.config.PollInterval)

	ticker := e.clock.Ticker(interval)
	defer ticker.Stop()

	e.wg.Add(1)
	defer e.wg.Done()

	e.logger.Info().
		Dur("interval", interval).
		Str("alpaca_base_url", e.config.AlpacaBaseURL).
		Bool("discover", e.source != nil).
		Msg("Starting exporter")

	e.bootstrap(ctx)
	e.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.done:
			return nil
		case <-ticker.Chan():
			e.runCycle(ctx)
		}
	}
}

// Stop signals the loop to exit and waits for the running cycle to finish or
// ctx to expire.
func (e *Exporter) Stop(ctx context.Context) error {
	e.closeOnce.Do(func() { close(e.done) })

	finished := make(chan struct{})

	go func() {
		e.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close handles cleanup of resources.
func (e *Exporter) Close() error {
	e.closeOnce.Do(func() { close(e.done) })

	return nil
}

// bootstrap reports the devices found at startup.
func (e *Exporter) bootstrap(ctx context.Context) {
	if e.source == nil {
		for _, id := range e.static.Devices() {
			name := e.state.Direct.Resolve(ctx, resolver.Request{Device: id, Attribute: nameAttribute, Quiet: true, Probe: true})
			if name.Truthy() {
				e.logger.Info().Str("device", id.String()).Str("name", name.String()).Msg("Found device")
			} else {
				e.logger.Warn().Str("device", id.String()).Msg("Unable to find device")
			}
		}

		return
	}

	e.logger.Info().Msg("Auto-discovering devices via Alpaca Management API")

	discovered := e.source.Discover(ctx, true)
	if discovered.Len() == 0 {
		e.logger.Warn().Msg("No devices discovered, retrying on the next cycle")

		return
	}

	e.cycleMu.Lock()
	e.known.Merge(discovered)
	e.cycleMu.Unlock()
}

func (e *Exporter) runCycle(ctx context.Context) {
	if err := e.Cycle(ctx); err != nil {
		e.logger.Error().Err(err).Msg("Error during poll cycle")
	}
}

// Cycle performs one poll cycle. Per-device failures are logged and do not
// stop the remaining devices. A cancelled ctx aborts the cycle before the
// reconciliation, leaving the previous cycle as the reference.
func (e *Exporter) Cycle(ctx context.Context) error {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	start := e.clock.Now()
	cycleLog := logger.Wrap(e.logger.With().Str("cycle_id", uuid.NewString()).Logger())

	devices, present := e.refreshDevices(ctx, cycleLog)
	current := reconcile.NewCycle()

	failures := 0

	for _, id := range devices {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("poll cycle aborted: %w", err)
		}

		if err := e.processDevice(ctx, id, present(id), current, cycleLog); err != nil {
			failures++

			cycleLog.Error().Err(err).Str("device", id.String()).Msg("Device processing failed")
		}
	}

	cleared := reconcile.Reconcile(e.previous, current, e.sink)
	e.previous = current

	for _, o := range cleared {
		cycleLog.Debug().Str("series", o.Identity()).Msg("Removed stale series")
	}

	cycleLog.Debug().
		Int("devices", len(devices)).
		Int("observations", current.Len()).
		Int("cleared", len(cleared)).
		Int("failures", failures).
		Dur("duration", e.clock.Now().Sub(start)).
		Msg("Poll cycle complete")

	return nil
}

// refreshDevices returns the devices to visit this cycle and a predicate
// telling whether a device is currently offered by the server.
func (e *Exporter) refreshDevices(ctx context.Context, log logger.Logger) ([]alpaca.DeviceID, func(alpaca.DeviceID) bool) {
	if e.source == nil {
		return e.static.Devices(), func(alpaca.DeviceID) bool { return true }
	}

	discovered := e.source.Discover(ctx, false)

	for _, id := range e.known.Merge(discovered) {
		log.Info().Str("device", id.String()).Msg("NEW DEVICE added to monitoring")
	}

	return e.known.Devices(), discovered.Contains
}

func (e *Exporter) processDevice(
	ctx context.Context, id alpaca.DeviceID, present bool, cycle *reconcile.Cycle, log logger.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errCyclePanic, r)
		}
	}()

	labels := schema.BaseLabels(id)

	if !present {
		if e.tracker.MarkDisconnected(id).Logged() {
			log.Warn().Str("device", id.String()).Msg("DISCONNECTED: no longer discovered")
		}

		e.publish(cycle, metrics.NewObservation(ConnectedGauge, labels, metrics.Sample(0)))

		return nil
	}

	quiet := e.tracker.State(id) != tracker.Connected

	name := e.state.Direct.Resolve(ctx, resolver.Request{
		Device:    id,
		Attribute: nameAttribute,
		Quiet:     quiet,
		Probe:     true,
	})
	if !name.Truthy() {
		if e.tracker.MarkDisconnected(id).Logged() {
			log.Warn().Str("device", id.String()).Msg("DISCONNECTED: not responding")
		}

		e.publish(cycle, metrics.NewObservation(ConnectedGauge, labels, metrics.Sample(0)))

		return nil
	}

	e.publish(cycle, metrics.NewObservation(ConnectedGauge, labels, metrics.Sample(1)))

	if t := e.tracker.MarkConnected(id); t.Connected() {
		e.state.Skips.Reset(id)

		log.Info().Str("device", id.String()).Str("name", name.String()).Msg("CONNECTED")
	}

	info := labels.Clone()
	info.Set(nameLabel, name.String())
	e.publish(cycle, metrics.NewObservation(NameGauge, info, metrics.Sample(1)))

	for _, o := range e.evaluator.Evaluate(ctx, schema.Target{
		Device: id,
		Name:   name,
		Config: e.schemas.For(id.Type),
	}) {
		e.publish(cycle, o)
	}

	return nil
}

func (e *Exporter) publish(cycle *reconcile.Cycle, o metrics.Observation) {
	metrics.Publish(e.sink, o)
	cycle.Add(o)
}

// Tracker exposes the connection states, mainly for tests and diagnostics.
func (e *Exporter) Tracker() *tracker.Tracker {
	return e.tracker
}

// SkipList exposes the unsupported-attribute memory.
func (e *Exporter) SkipList() *resolver.SkipList {
	return e.state.Skips
}
