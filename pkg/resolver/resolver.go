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


package resolver

import (
	"context"
	"errors"
	"strconv"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
)

const (
	// ErrorCounter counts failed attribute reads.
	ErrorCounter = "alpaca_error_total"
	// SuccessCounter counts successful attribute reads.
	SuccessCounter = "alpaca_success_total"
)

// Resolver performs uncached reads through an AttributeGetter.
type Resolver struct {
	getter AttributeGetter
	skips  *SkipList
	sink   metrics.Sink
	logger logger.Logger
}

var _ Reader = (*Resolver)(nil)

// New creates a Resolver. A nil skip list gets a private one.
func New(getter AttributeGetter, skips *SkipList, sink metrics.Sink, log logger.Logger) *Resolver {
	if skips == nil {
		skips = NewSkipList()
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Resolver{
		getter: getter,
		skips:  skips,
		sink:   sink,
		logger: log,
	}
}

// Resolve implements Reader. Skipped attributes return absent without touching
// the network or the counters, unless the request is a probe.
func (r *Resolver) Resolve(ctx context.Context, req Request) alpaca.Value {
	if !req.Probe && r.skips.Contains(req.Device, req.Attribute) {
		return alpaca.Absent
	}

	v, err := r.getter.Get(ctx, req.Device, req.Attribute, req.Query)

	switch {
	case err == nil:
		r.count(SuccessCounter, req)

		return v
	case errors.Is(err, alpaca.ErrNotImplemented) && req.Probe:
		r.logger.Debug().
			Str("device", req.Device.String()).
			Str("attribute", req.Attribute).
			Msg("Probe attribute not implemented")

		return alpaca.Absent
	case errors.Is(err, alpaca.ErrNotImplemented):
		r.logger.Debug().
			Str("device", req.Device.String()).
			Str("attribute", req.Attribute).
			Msg("Attribute not implemented, skipping until reconnect")
		r.skips.Add(req.Device, req.Attribute)

		return alpaca.Absent
	default:
		r.logger.Debug().
			Err(err).
			Str("device", req.Device.String()).
			Str("attribute", req.Attribute).
			Str("query", req.Query).
			Msg("Attribute read failed")
		r.count(ErrorCounter, req)

		return alpaca.Absent
	}
}

func (r *Resolver) count(name string, req Request) {
	if req.Quiet || r.sink == nil {
		return
	}

	r.sink.Inc(name, metrics.NewLabels(
		"device_type", req.Device.Type.String(),
		"device_number", strconv.Itoa(req.Device.Number),
		"attribute", req.Attribute,
	))
}
