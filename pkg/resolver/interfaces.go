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


//go:generate mockgen -destination=mock_resolver.go -package=resolver github.com/carverauto/alpaca-exporter/pkg/resolver AttributeGetter,Reader

// Package resolver turns attribute requests into values. It hides the skip
// list of unsupported attributes, the success and error counters, and the
// optional TTL cache from the schema evaluator.
package resolver

import (
	"context"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
)

// Request identifies one attribute read.
type Request struct {
	Device    alpaca.DeviceID
	Attribute string
	// Query is the raw query string, e.g. "id=2". Empty for none.
	Query string
	// Quiet suppresses the success and error counters. Used for liveness probes
	// of devices that are not known to be connected.
	Quiet bool
	// Probe marks a liveness read. It always reaches the device and a
	// not-implemented answer does not land in the skip list.
	Probe bool
}

// Reader resolves a request to a value. Absent means the attribute could not
// be read for any reason.
type Reader interface {
	Resolve(ctx context.Context, req Request) alpaca.Value
}

// AttributeGetter is the transport a Resolver reads through. *alpaca.Client
// implements it.
type AttributeGetter interface {
	Get(ctx context.Context, device alpaca.DeviceID, attribute, query string) (alpaca.Value, error)
	BaseURL() string
}

var _ AttributeGetter = (*alpaca.Client)(nil)
