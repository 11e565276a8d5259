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
	"sync"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
)

// SkipList records, per device, the attributes that answered "not implemented".
// Entries are only removed by Reset, which the poll loop calls when a device
// (re)connects.
type SkipList struct {
	mu      sync.RWMutex
	entries map[alpaca.DeviceID]map[string]struct{}
}

// NewSkipList returns an empty skip list.
func NewSkipList() *SkipList {
	return &SkipList{entries: make(map[alpaca.DeviceID]map[string]struct{})}
}

// Add marks attribute as unsupported on device. Adding twice is harmless.
func (s *SkipList) Add(device alpaca.DeviceID, attribute string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs, ok := s.entries[device]
	if !ok {
		attrs = make(map[string]struct{})
		s.entries[device] = attrs
	}

	attrs[attribute] = struct{}{}
}

// Contains reports whether attribute is skipped for device.
func (s *SkipList) Contains(device alpaca.DeviceID, attribute string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[device][attribute]

	return ok
}

// Reset forgets every skipped attribute of device.
func (s *SkipList) Reset(device alpaca.DeviceID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, device)
}

// Len returns the number of skipped attributes of device.
func (s *SkipList) Len(device alpaca.DeviceID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries[device])
}
