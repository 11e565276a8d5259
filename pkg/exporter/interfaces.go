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


package exporter

//go:generate mockgen -destination=mock_exporter.go -package=exporter github.com/carverauto/alpaca-exporter/pkg/exporter Clock,Ticker,DeviceSource

import (
	"context"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// DeviceSource lists the devices currently configured on the Alpaca server.
// It never fails; an unreachable server yields an empty inventory.
type DeviceSource interface {
	Discover(ctx context.Context, verbose bool) alpaca.Inventory
}

var _ DeviceSource = alpaca.Discoverer{}
