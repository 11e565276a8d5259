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


// Package tracker remembers the last known connectivity of every device and
// decides which transitions are worth reporting.
package tracker

import (
	"sync"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
)

// State is a device's connectivity as of the last probe.
type State int

const (
	// Unknown is the state of a device that was never probed.
	Unknown State = iota
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "CONNECTED"
	case Disconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Transition is the result of recording a probe outcome.
type Transition struct {
	Device alpaca.DeviceID
	From   State
	To     State
}

// Changed reports whether the state moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Connected reports a move into Connected from any other state. The caller
// resets per-device caches on it.
func (t Transition) Connected() bool {
	return t.To == Connected && t.From != Connected
}

// Logged reports whether the transition should be announced. Connections are
// announced from Unknown and Disconnected; disconnections only when the
// device was previously Connected, so a device that never answered stays quiet.
func (t Transition) Logged() bool {
	if t.To == Connected {
		return t.From != Connected
	}

	return t.To == Disconnected && t.From == Connected
}

// Tracker holds per-device states.
type Tracker struct {
	mu     sync.Mutex
	states map[alpaca.DeviceID]State
}

// New returns a tracker where every device is Unknown.
func New() *Tracker {
	return &Tracker{states: make(map[alpaca.DeviceID]State)}
}

// State returns the current state of id.
func (t *Tracker) State(id alpaca.DeviceID) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.states[id]
}

// MarkConnected records a successful probe.
func (t *Tracker) MarkConnected(id alpaca.DeviceID) Transition {
	return t.mark(id, Connected)
}

// MarkDisconnected records a failed probe or a device missing from discovery.
func (t *Tracker) MarkDisconnected(id alpaca.DeviceID) Transition {
	return t.mark(id, Disconnected)
}

func (t *Tracker) mark(id alpaca.DeviceID, to State) Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	from := t.states[id]
	t.states[id] = to

	return Transition{Device: id, From: from, To: to}
}
