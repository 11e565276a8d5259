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
	"context"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/carverauto/alpaca-exporter/pkg/version"
)

// Inventory maps each device type to its device numbers in first-seen order.
type Inventory map[DeviceType][]int

// Add records number under t unless it is already present. It reports whether
// the device was new.
func (inv Inventory) Add(t DeviceType, number int) bool {
	for _, n := range inv[t] {
		if n == number {
			return false
		}
	}

	inv[t] = append(inv[t], number)

	return true
}

// Contains reports whether id is part of the inventory.
func (inv Inventory) Contains(id DeviceID) bool {
	for _, n := range inv[id.Type] {
		if n == id.Number {
			return true
		}
	}

	return false
}

// Merge adds every device of other and returns the ones that were new.
func (inv Inventory) Merge(other Inventory) []DeviceID {
	var added []DeviceID

	for _, id := range other.Devices() {
		if inv.Add(id.Type, id.Number) {
			added = append(added, id)
		}
	}

	return added
}

// Devices lists the inventory in canonical type order, numbers in insertion order.
func (inv Inventory) Devices() []DeviceID {
	out := make([]DeviceID, 0, inv.Len())

	for _, t := range deviceTypes {
		for _, n := range inv[t] {
			out = append(out, DeviceID{Type: t, Number: n})
		}
	}

	return out
}

// Len counts devices across all types.
func (inv Inventory) Len() int {
	total := 0
	for _, numbers := range inv {
		total += len(numbers)
	}

	return total
}

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for t, numbers := range inv {
		out[t] = append([]int(nil), numbers...)
	}

	return out
}

type configuredDevice struct {
	DeviceType   *string `json:"DeviceType"`
	DeviceNumber *int    `json:"DeviceNumber"`
	DeviceName   string  `json:"DeviceName"`
	UniqueID     string  `json:"UniqueID"`
}

type configuredDevicesResponse struct {
	Value *[]configuredDevice `json:"Value"`
}

// Discover queries the management API. Unsupported device types are logged and
// dropped; when verbose every accepted device is logged too.
func (c *Client) Discover(ctx context.Context, verbose bool) (Inventory, error) {
	var resp configuredDevicesResponse

	u := c.ManagementURL()

	c.logger.Debug().Str("url", u).Msg("Querying management API")

	if err := requests.URL(u).
		Client(c.httpClient).
		UserAgent(version.UserAgent()).
		CheckStatus(http.StatusOK).
		ToJSON(&resp).
		Fetch(ctx); err != nil {
		return Inventory{}, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	if resp.Value == nil {
		return Inventory{}, fmt.Errorf("%w: response missing 'Value' field", ErrDiscovery)
	}

	discovered := make(Inventory)

	for i, dev := range *resp.Value {
		if dev.DeviceType == nil || dev.DeviceNumber == nil {
			return Inventory{}, fmt.Errorf("%w: entry %d missing DeviceType or DeviceNumber", ErrDiscovery, i)
		}

		name := dev.DeviceName
		if name == "" {
			name = "Unknown"
		}

		t, err := ParseDeviceType(*dev.DeviceType)
		if err != nil || *dev.DeviceNumber < 0 {
			if verbose {
				c.logger.Info().
					Str("device_type", *dev.DeviceType).
					Int("device_number", *dev.DeviceNumber).
					Str("device_name", name).
					Msg("SKIPPED: unsupported device")
			}

			continue
		}

		if discovered.Add(t, *dev.DeviceNumber) && verbose {
			c.logger.Info().
				Str("device", DeviceID{Type: t, Number: *dev.DeviceNumber}.String()).
				Str("device_name", name).
				Str("unique_id", dev.UniqueID).
				Msg("DISCOVERED")
		}
	}

	return discovered, nil
}

// Discoverer wraps Client.Discover so failures never escape: they are logged
// and turned into an empty inventory for the cycle.
type Discoverer struct {
	Client *Client
}

// Discover never returns an error.
func (d Discoverer) Discover(ctx context.Context, verbose bool) Inventory {
	inv, err := d.Client.Discover(ctx, verbose)
	if err != nil {
		d.Client.logger.Warn().Err(err).Msg("Failed to discover devices via management API")

		return Inventory{}
	}

	return inv
}
