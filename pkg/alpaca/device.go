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

// Package alpaca speaks the flat HTTP attribute protocol exposed by ASCOM Alpaca
// devices and the management API used to enumerate them.
package alpaca

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceType is one of the Alpaca device classes the exporter knows how to poll.
type DeviceType string

const (
	Camera              DeviceType = "camera"
	CoverCalibrator     DeviceType = "covercalibrator"
	Dome                DeviceType = "dome"
	FilterWheel         DeviceType = "filterwheel"
	Focuser             DeviceType = "focuser"
	ObservingConditions DeviceType = "observingconditions"
	Rotator             DeviceType = "rotator"
	SafetyMonitor       DeviceType = "safetymonitor"
	Switch              DeviceType = "switch"
	Telescope           DeviceType = "telescope"
)

var deviceTypes = []DeviceType{
	Camera,
	CoverCalibrator,
	Dome,
	FilterWheel,
	Focuser,
	ObservingConditions,
	Rotator,
	SafetyMonitor,
	Switch,
	Telescope,
}

// DeviceTypes returns the supported types in canonical order.
func DeviceTypes() []DeviceType {
	out := make([]DeviceType, len(deviceTypes))
	copy(out, deviceTypes)

	return out
}

// ParseDeviceType matches s case-insensitively against the supported types.
func ParseDeviceType(s string) (DeviceType, error) {
	t := DeviceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDeviceType, s)
	}

	return t, nil
}

// Valid reports whether t is one of the supported types.
func (t DeviceType) Valid() bool {
	for _, known := range deviceTypes {
		if t == known {
			return true
		}
	}

	return false
}

func (t DeviceType) String() string {
	return string(t)
}

// DeviceID identifies a single polling target for the lifetime of the process.
type DeviceID struct {
	Type   DeviceType
	Number int
}

// NewDeviceID validates and builds a DeviceID.
func NewDeviceID(t DeviceType, number int) (DeviceID, error) {
	if !t.Valid() {
		return DeviceID{}, fmt.Errorf("%w: %q", ErrUnsupportedDeviceType, string(t))
	}

	if number < 0 {
		return DeviceID{}, fmt.Errorf("%w: %d", ErrInvalidDeviceNumber, number)
	}

	return DeviceID{Type: t, Number: number}, nil
}

func (d DeviceID) String() string {
	return string(d.Type) + "/" + strconv.Itoa(d.Number)
}
