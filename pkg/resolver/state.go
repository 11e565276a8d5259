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
	"time"

	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/metrics"
)

// Config configures a State.
type Config struct {
	Getter    AttributeGetter
	Sink      metrics.Sink
	Logger    logger.Logger
	CacheSize int
	CacheTTL  time.Duration
}

// State owns everything a resolution needs to share across cycles: the skip
// list, the cache, and the plain and cached readers built on top of them.
// It lives for the whole process and is passed by reference.
type State struct {
	Skips  *SkipList
	Cache  *Cache
	Direct *Resolver
	Cached *CachedResolver
}

// NewState wires a State from cfg.
func NewState(cfg Config) *State {
	skips := NewSkipList()
	cache := NewCache(cfg.CacheSize, cfg.CacheTTL)
	direct := New(cfg.Getter, skips, cfg.Sink, cfg.Logger)

	return &State{
		Skips:  skips,
		Cache:  cache,
		Direct: direct,
		Cached: NewCachedResolver(direct, cache, cfg.Getter.BaseURL()),
	}
}

// Reader returns the cached or the direct reader.
func (s *State) Reader(cached bool) Reader {
	if cached {
		return s.Cached
	}

	return s.Direct
}
