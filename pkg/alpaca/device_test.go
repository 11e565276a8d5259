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

package alpaca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceType(t *testing.T) {
	got, err := ParseDeviceType(" Telescope ")
	require.NoError(t, err)
	assert.Equal(t, Telescope, got)

	_, err = ParseDeviceType("toaster")
	require.ErrorIs(t, err, ErrUnsupportedDeviceType)
}

func TestDeviceTypes_CanonicalOrder(t *testing.T) {
	types := DeviceTypes()

	require.Len(t, types, 10)
	assert.Equal(t, Camera, types[0])
	assert.Equal(t, Telescope, types[9])

	types[0] = "mutated"
	assert.Equal(t, Camera, DeviceTypes()[0], "callers must not be able to mutate the canonical list")
}

func TestNewDeviceID(t *testing.T) {
	id, err := NewDeviceID(Switch, 2)
	require.NoError(t, err)
	assert.Equal(t, "switch/2", id.String())

	_, err = NewDeviceID(Switch, -1)
	require.ErrorIs(t, err, ErrInvalidDeviceNumber)

	_, err = NewDeviceID("toaster", 0)
	require.ErrorIs(t, err, ErrUnsupportedDeviceType)
}

func TestValue(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		present bool
		float   float64
		floatOK bool
		str     string
		truthy  bool
	}{
		{name: "absent", in: nil},
		{name: "true", in: true, present: true, float: 1, floatOK: true, str: "1", truthy: true},
		{name: "false", in: false, present: true, float: 0, floatOK: true, str: "0"},
		{name: "float", in: 42.5, present: true, float: 42.5, floatOK: true, str: "42.5", truthy: true},
		{name: "int", in: 3, present: true, float: 3, floatOK: true, str: "3", truthy: true},
		{name: "numeric string", in: " 7.25 ", present: true, float: 7.25, floatOK: true, str: " 7.25 ", truthy: true},
		{name: "string", in: "Simulator", present: true, str: "Simulator", truthy: true},
		{name: "empty string", in: "", present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)

			assert.Equal(t, tt.present, v.Present())

			f, ok := v.Float64()
			assert.Equal(t, tt.floatOK, ok)
			assert.InDelta(t, tt.float, f, 1e-9)
			assert.Equal(t, tt.str, v.String())
			assert.Equal(t, tt.truthy, v.Truthy())
		})
	}
}

func TestValue_Int(t *testing.T) {
	n, ok := ValueOf(4.0).Int()
	require.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = Absent.Int()
	assert.False(t, ok)
}
