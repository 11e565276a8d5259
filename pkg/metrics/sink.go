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

//go:generate mockgen -destination=mock_sink.go -package=metrics github.com/carverauto/alpaca-exporter/pkg/metrics Sink

package metrics

// SetResult describes what a Set call did to the sink.
type SetResult int

const (
	// SetUpdated means the series now holds the given value.
	SetUpdated SetResult = iota
	// SetCleared means an existing series was removed.
	SetCleared
	// SetNoop means a clear was requested for a series that did not exist.
	SetNoop
)

func (r SetResult) String() string {
	switch r {
	case SetUpdated:
		return "updated"
	case SetCleared:
		return "cleared"
	case SetNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// Sink receives gauge and counter updates. Label key sets may differ between
// calls for the same name.
type Sink interface {
	// Set stores value on the gauge series, or removes the series when value is nil.
	Set(name string, value *float64, labels Labels) SetResult
	// Inc adds one to the counter series.
	Inc(name string, labels Labels)
}

// Publish writes an observation to sink.
func Publish(sink Sink, o Observation) SetResult {
	return sink.Set(o.Name, o.Value, o.Labels)
}
