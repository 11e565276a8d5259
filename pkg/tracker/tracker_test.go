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


package tracker

import (
	"testing"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/stretchr/testify/assert"
)

var dome = alpaca.DeviceID{Type: alpaca.Dome, Number: 0}

func TestTracker_InitialStateUnknown(t *testing.T) {
	assert.Equal(t, Unknown, New().State(dome))
}

func TestTracker_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		steps     []State
		wantFrom  State
		wantTo    State
		logged    bool
		connected bool
	}{
		{name: "unknown to connected", steps: []State{Connected}, wantFrom: Unknown, wantTo: Connected, logged: true, connected: true},
		{name: "unknown to disconnected is quiet", steps: []State{Disconnected}, wantFrom: Unknown, wantTo: Disconnected},
		{name: "connected to disconnected", steps: []State{Connected, Disconnected}, wantFrom: Connected, wantTo: Disconnected, logged: true},
		{name: "disconnected stays quiet", steps: []State{Connected, Disconnected, Disconnected}, wantFrom: Disconnected, wantTo: Disconnected},
		{name: "reconnect", steps: []State{Connected, Disconnected, Connected}, wantFrom: Disconnected, wantTo: Connected, logged: true, connected: true},
		{name: "connected stays quiet", steps: []State{Connected, Connected}, wantFrom: Connected, wantTo: Connected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()

			var last Transition

			for _, s := range tt.steps {
				if s == Connected {
					last = tr.MarkConnected(dome)
				} else {
					last = tr.MarkDisconnected(dome)
				}
			}

			assert.Equal(t, tt.wantFrom, last.From)
			assert.Equal(t, tt.wantTo, last.To)
			assert.Equal(t, tt.logged, last.Logged())
			assert.Equal(t, tt.connected, last.Connected())
			assert.Equal(t, tt.wantTo, tr.State(dome))
		})
	}
}

func TestTracker_DevicesAreIndependent(t *testing.T) {
	tr := New()
	other := alpaca.DeviceID{Type: alpaca.Dome, Number: 1}

	tr.MarkConnected(dome)

	assert.Equal(t, Unknown, tr.State(other))
	assert.False(t, tr.MarkDisconnected(other).Logged())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "CONNECTED", Connected.String())
	assert.Equal(t, "DISCONNECTED", Disconnected.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}
