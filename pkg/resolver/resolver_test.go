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
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var focuser = alpaca.DeviceID{Type: alpaca.Focuser, Number: 0}

func counterLabels(attribute string) metrics.Labels {
	return metrics.NewLabels(
		"device_type", "focuser",
		"device_number", "0",
		"attribute", attribute,
	)
}

func TestResolver_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	sink := metrics.NewRegistry(metrics.RegistryConfig{Host: "h"})

	getter.EXPECT().Get(gomock.Any(), focuser, "position", "").Return(alpaca.ValueOf(1200), nil)

	r := New(getter, nil, sink, nil)
	v := r.Resolve(context.Background(), Request{Device: focuser, Attribute: "position"})

	f, ok := v.Float64()
	require.True(t, ok)
	assert.InDelta(t, 1200.0, f, 1e-9)

	n, ok := sink.Counter(SuccessCounter, counterLabels("position"))
	require.True(t, ok)
	assert.InDelta(t, 1.0, n, 1e-9)

	_, ok = sink.Counter(ErrorCounter, counterLabels("position"))
	assert.False(t, ok)
}

func TestResolver_TransportFailureCountsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	sink := metrics.NewRegistry(metrics.RegistryConfig{Host: "h"})

	getter.EXPECT().Get(gomock.Any(), focuser, "position", "").
		Return(alpaca.Absent, fmt.Errorf("%w: connection refused", alpaca.ErrTransport))

	r := New(getter, nil, sink, nil)
	v := r.Resolve(context.Background(), Request{Device: focuser, Attribute: "position"})

	assert.False(t, v.Present())

	n, ok := sink.Counter(ErrorCounter, counterLabels("position"))
	require.True(t, ok)
	assert.InDelta(t, 1.0, n, 1e-9)
}

func TestResolver_ProtocolErrorCountsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	sink := metrics.NewRegistry(metrics.RegistryConfig{Host: "h"})
	skips := NewSkipList()

	getter.EXPECT().Get(gomock.Any(), focuser, "temperature", "").
		Return(alpaca.Absent, &alpaca.ProtocolError{Number: 1025, Message: "invalid value"}).
		Times(2)

	r := New(getter, skips, sink, nil)
	r.Resolve(context.Background(), Request{Device: focuser, Attribute: "temperature"})
	r.Resolve(context.Background(), Request{Device: focuser, Attribute: "temperature"})

	assert.False(t, skips.Contains(focuser, "temperature"), "only not-implemented errors are skipped")

	n, ok := sink.Counter(ErrorCounter, counterLabels("temperature"))
	require.True(t, ok)
	assert.InDelta(t, 2.0, n, 1e-9)
}

func TestResolver_NotImplementedIsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	sink := metrics.NewMockSink(ctrl)
	skips := NewSkipList()

	// One network call, no counters, then the skip list answers.
	getter.EXPECT().Get(gomock.Any(), focuser, "temperature", "").
		Return(alpaca.Absent, alpaca.ErrNotImplemented).
		Times(1)

	r := New(getter, skips, sink, nil)

	for i := 0; i < 3; i++ {
		v := r.Resolve(context.Background(), Request{Device: focuser, Attribute: "temperature"})
		assert.False(t, v.Present())
	}

	assert.True(t, skips.Contains(focuser, "temperature"))
}

func TestResolver_ProbeBypassesSkipList(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	skips := NewSkipList()
	skips.Add(focuser, "name")

	gomock.InOrder(
		getter.EXPECT().Get(gomock.Any(), focuser, "name", "").Return(alpaca.Absent, alpaca.ErrNotImplemented),
		getter.EXPECT().Get(gomock.Any(), focuser, "name", "").Return(alpaca.ValueOf("Focuser"), nil),
	)

	r := New(getter, skips, nil, nil)
	req := Request{Device: focuser, Attribute: "name", Quiet: true, Probe: true}

	assert.False(t, r.Resolve(context.Background(), req).Present())
	assert.Equal(t, "Focuser", r.Resolve(context.Background(), req).String())

	skips.Reset(focuser)
	getter.EXPECT().Get(gomock.Any(), focuser, "name", "").Return(alpaca.Absent, alpaca.ErrNotImplemented)
	r.Resolve(context.Background(), req)
	assert.False(t, skips.Contains(focuser, "name"), "probe answers never enter the skip list")
}

func TestResolver_QuietSuppressesCounters(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)
	sink := metrics.NewMockSink(ctrl)

	gomock.InOrder(
		getter.EXPECT().Get(gomock.Any(), focuser, "name", "").Return(alpaca.Absent, alpaca.ErrTransport),
		getter.EXPECT().Get(gomock.Any(), focuser, "name", "").Return(alpaca.ValueOf("Focuser"), nil),
	)

	r := New(getter, nil, sink, nil)

	assert.False(t, r.Resolve(context.Background(), Request{Device: focuser, Attribute: "name", Quiet: true}).Present())
	assert.Equal(t, "Focuser", r.Resolve(context.Background(), Request{Device: focuser, Attribute: "name", Quiet: true}).String())
}

func TestSkipList_Reset(t *testing.T) {
	skips := NewSkipList()
	other := alpaca.DeviceID{Type: alpaca.Focuser, Number: 1}

	skips.Add(focuser, "temperature")
	skips.Add(focuser, "temperature")
	skips.Add(focuser, "tempcomp")
	skips.Add(other, "temperature")

	assert.Equal(t, 2, skips.Len(focuser))

	skips.Reset(focuser)

	assert.False(t, skips.Contains(focuser, "temperature"))
	assert.Zero(t, skips.Len(focuser))
	assert.True(t, skips.Contains(other, "temperature"), "reset is per device")
}

func TestCachedResolver_HitWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockReader(ctrl)

	req := Request{Device: focuser, Attribute: "maxstep"}
	next.EXPECT().Resolve(gomock.Any(), req).Return(alpaca.ValueOf(50000)).Times(1)

	c := NewCachedResolver(next, NewCache(0, 0), "http://a/api/v1")

	for i := 0; i < 3; i++ {
		v, ok := c.Resolve(context.Background(), req).Int()
		require.True(t, ok)
		assert.Equal(t, 50000, v)
	}
}

func TestCachedResolver_CachesAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockReader(ctrl)

	req := Request{Device: focuser, Attribute: "name"}
	next.EXPECT().Resolve(gomock.Any(), req).Return(alpaca.Absent).Times(1)

	c := NewCachedResolver(next, nil, "http://a/api/v1")

	assert.False(t, c.Resolve(context.Background(), req).Present())
	assert.False(t, c.Resolve(context.Background(), req).Present())
}

func TestCachedResolver_KeyIncludesQueryAndBaseURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockReader(ctrl)
	cache := NewCache(0, 0)

	sw := alpaca.DeviceID{Type: alpaca.Switch, Number: 0}
	r0 := Request{Device: sw, Attribute: "getswitchname", Query: "id=0"}
	r1 := Request{Device: sw, Attribute: "getswitchname", Query: "id=1"}

	next.EXPECT().Resolve(gomock.Any(), r0).Return(alpaca.ValueOf("Heater")).Times(2)
	next.EXPECT().Resolve(gomock.Any(), r1).Return(alpaca.ValueOf("Fan")).Times(1)

	a := NewCachedResolver(next, cache, "http://a/api/v1")
	b := NewCachedResolver(next, cache, "http://b/api/v1")

	assert.Equal(t, "Heater", a.Resolve(context.Background(), r0).String())
	assert.Equal(t, "Fan", a.Resolve(context.Background(), r1).String())
	assert.Equal(t, "Heater", b.Resolve(context.Background(), r0).String())
	assert.Equal(t, 3, cache.Len())
}

func TestCachedResolver_Expiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockReader(ctrl)

	req := Request{Device: focuser, Attribute: "maxstep"}
	next.EXPECT().Resolve(gomock.Any(), req).Return(alpaca.ValueOf(1)).Times(2)

	c := NewCachedResolver(next, NewCache(0, 50*time.Millisecond), "http://a/api/v1")

	c.Resolve(context.Background(), req)
	time.Sleep(120 * time.Millisecond)
	c.Resolve(context.Background(), req)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCache(2, time.Minute)

	k := func(attr string) CacheKey { return CacheKey{BaseURL: "u", Device: focuser, Attribute: attr} }

	cache.Add(k("a"), alpaca.ValueOf(1))
	cache.Add(k("b"), alpaca.ValueOf(2))

	_, ok := cache.Get(k("a"))
	require.True(t, ok)

	cache.Add(k("c"), alpaca.ValueOf(3))

	_, ok = cache.Get(k("b"))
	assert.False(t, ok, "b was least recently used")

	_, ok = cache.Get(k("a"))
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func TestState_Reader(t *testing.T) {
	ctrl := gomock.NewController(t)
	getter := NewMockAttributeGetter(ctrl)

	getter.EXPECT().BaseURL().Return("http://a/api/v1")

	s := NewState(Config{Getter: getter})

	assert.Same(t, s.Direct, s.Reader(false))
	assert.Same(t, s.Cached, s.Reader(true))
}
