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
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/alpaca"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 60 * time.Second
)

// CacheKey identifies a cached read. The base URL is part of the key so two
// servers never share entries.
type CacheKey struct {
	BaseURL   string
	Device    alpaca.DeviceID
	Attribute string
	Query     string
}

// Cache is a size-bounded LRU whose entries expire a fixed time after they
// were stored. Reads do not extend an entry's life.
type Cache struct {
	lru *expirable.LRU[CacheKey, alpaca.Value]
}

// NewCache creates a cache. Non-positive arguments select the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Cache{lru: expirable.NewLRU[CacheKey, alpaca.Value](size, nil, ttl)}
}

// Get returns a stored value. An absent value is a valid hit.
func (c *Cache) Get(key CacheKey) (alpaca.Value, bool) {
	return c.lru.Get(key)
}

// Add stores v under key, replacing any earlier entry and restarting its TTL.
func (c *Cache) Add(key CacheKey, v alpaca.Value) {
	c.lru.Add(key, v)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// CachedResolver serves reads from a Cache and falls through to another
// Reader on a miss. Absent results are cached too, so a failing attribute is
// not retried until its entry expires.
type CachedResolver struct {
	next    Reader
	cache   *Cache
	baseURL string
}

var _ Reader = (*CachedResolver)(nil)

// NewCachedResolver wraps next. baseURL is folded into every cache key.
func NewCachedResolver(next Reader, cache *Cache, baseURL string) *CachedResolver {
	if cache == nil {
		cache = NewCache(0, 0)
	}

	return &CachedResolver{next: next, cache: cache, baseURL: baseURL}
}

// Resolve implements Reader.
func (c *CachedResolver) Resolve(ctx context.Context, req Request) alpaca.Value {
	key := CacheKey{
		BaseURL:   c.baseURL,
		Device:    req.Device,
		Attribute: req.Attribute,
		Query:     req.Query,
	}

	if v, ok := c.cache.Get(key); ok {
		return v
	}

	v := c.next.Resolve(ctx, req)
	c.cache.Add(key, v)

	return v
}
