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

import "strconv"

// Observation is one metric reading produced during a poll cycle. A nil Value
// means the attribute could not be read; it is published as a deletion and is
// not the same as a reading of 0.
type Observation struct {
	Name   string
	Labels Labels
	Value  *float64
}

// NewObservation snapshots labels so later mutation by the caller cannot leak
// into the observation.
func NewObservation(name string, labels Labels, value *float64) Observation {
	return Observation{Name: name, Labels: labels.Clone(), Value: value}
}

// Sample returns a pointer to v for use as an Observation value.
func Sample(v float64) *float64 {
	return &v
}

// Identity is the series identity used to match observations across cycles.
// The value is deliberately not part of it.
func (o Observation) Identity() string {
	return o.Name + o.Labels.String()
}

func (o Observation) String() string {
	if o.Value == nil {
		return o.Identity() + " <absent>"
	}

	return o.Identity() + " " + strconv.FormatFloat(*o.Value, 'g', -1, 64)
}
