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
	"errors"
	"fmt"
)

// NotImplementedErrorNumber is the ErrorNumber Alpaca reserves for
// "property or method not implemented".
const NotImplementedErrorNumber = 1024

var (
	// ErrTransport covers connection errors, timeouts, non-2xx statuses and
	// bodies that are empty or not JSON.
	ErrTransport = errors.New("alpaca transport failure")
	// ErrNotImplemented is returned when the device answers with ErrorNumber 1024.
	ErrNotImplemented = errors.New("alpaca attribute not implemented")
	// ErrProtocol is wrapped by every *ProtocolError.
	ErrProtocol = errors.New("alpaca protocol error")

	ErrUnsupportedDeviceType = errors.New("unsupported device type")
	ErrInvalidDeviceNumber   = errors.New("invalid device number")
	ErrDiscovery             = errors.New("device discovery failed")
)

// ProtocolError is an application level failure reported by the device.
type ProtocolError struct {
	Number  int64
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("alpaca error %d", e.Number)
	}

	return fmt.Sprintf("alpaca error %d: %s", e.Number, e.Message)
}

func (*ProtocolError) Unwrap() error {
	return ErrProtocol
}
