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


// Package reconcile retracts series that were published in the previous poll
// cycle but not in the current one.
package reconcile

import (
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
)

// Cycle is the set of observations published during one poll cycle, in
// publication order. Adding an identity twice keeps the latest value.
type Cycle struct {
	order []string
	byID  map[string]metrics.Observation
}

// NewCycle returns an empty cycle.
func NewCycle() *Cycle {
	return &Cycle{byID: make(map[string]metrics.Observation)}
}

// Add records o.
func (c *Cycle) Add(o metrics.Observation) {
	id := o.Identity()
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}

	c.byID[id] = o
}

// Contains reports whether an observation with o's identity was recorded.
func (c *Cycle) Contains(o metrics.Observation) bool {
	if c == nil {
		return false
	}

	_, ok := c.byID[o.Identity()]

	return ok
}

// Len returns the number of distinct identities.
func (c *Cycle) Len() int {
	if c == nil {
		return 0
	}

	return len(c.order)
}

// Observations returns the recorded observations in publication order.
func (c *Cycle) Observations() []metrics.Observation {
	if c == nil {
		return nil
	}

	out := make([]metrics.Observation, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}

	return out
}

// Reconcile clears from sink every series of previous whose identity is not
// in current and returns the cleared observations. Only identity is
// compared, so a changed value never causes a clear.
func Reconcile(previous, current *Cycle, sink metrics.Sink) []metrics.Observation {
	var cleared []metrics.Observation

	for _, o := range previous.Observations() {
		if current.Contains(o) {
			continue
		}

		sink.Set(o.Name, nil, o.Labels)

		o.Value = nil
		cleared = append(cleared, o)
	}

	return cleared
}
