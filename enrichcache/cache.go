// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package enrichcache is the async, single-flight, read-through cache
// at the core of the enrichment pipeline. It maps a key to at most one
// in-flight loader invocation at a time, and exposes get, put and
// invalidate with the completion-order semantics the smart-update
// engine depends on.
package enrichcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/twinproj/thingcache/internal/telemetry"
)

// Key is the constraint a Cache's key type must satisfy: comparable
// so it can back a map, and stringable so it can key the underlying
// single-flight group without reflection.
type Key interface {
	comparable
	String() string
}

// Loader performs the one authoritative retrieval for key. On
// entity-not-found it should resolve with the zero value and a nil
// error, not a failure; network/server errors are returned as-is and
// propagate to every awaiter of the same in-flight call.
type Loader[K Key, V any] func(ctx context.Context, key K) (V, error)

type cached[V any] struct {
	value V
	gen   uint64
}

// cell coordinates the generation of the last write that is allowed
// to land for one key, so invalidate() and Put() can suppress a
// concurrently in-flight load's stale result without tearing down the
// future that load's other awaiters are blocked on.
type cell struct {
	mu  sync.Mutex
	gen uint64
}

// Cache is the async single-flight cache. The zero value is not
// usable; construct with New.
type Cache[K Key, V any] struct {
	cfg    config
	loader Loader[K, V]
	lru    *lru.LRU[K, cached[V]]
	group  singleflight.Group
	cells  sync.Map // K -> *cell

	hits, misses, loaderCalls, loaderErrors, invalidations atomic.Int64
}

// New builds a Cache backed by loader, sized and expired per opts.
func New[K Key, V any](loader Loader[K, V], opts ...Option) *Cache[K, V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache[K, V]{
		cfg:    cfg,
		loader: loader,
		lru:    lru.NewLRU[K, cached[V]](cfg.maxEntries, nil, cfg.expireAfterWrite),
	}
}

func (c *Cache[K, V]) cellFor(key K) *cell {
	if v, ok := c.cells.Load(key); ok {
		return v.(*cell)
	}
	actual, _ := c.cells.LoadOrStore(key, &cell{})

	return actual.(*cell)
}

// Get returns the READY value for key, awaiting the existing in-flight
// loader call if one is already running, or starting exactly one new
// call otherwise. At most one loader invocation per key is ever in
// flight at a time.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if cv, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		if c.cfg.expireAfterAccess > 0 {
			c.lru.Add(key, cv)
		}

		return cv.value, nil
	}
	c.misses.Add(1)

	return c.load(ctx, key)
}

func (c *Cache[K, V]) load(ctx context.Context, key K) (V, error) {
	ctx, span := telemetry.Start(ctx, c.cfg.tracer, c.cfg.namePrefix+".load",
		attribute.String("enrichcache.key", key.String()))
	defer span.End()

	ce := c.cellFor(key)
	ce.mu.Lock()
	gen := ce.gen
	ce.mu.Unlock()

	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.loaderCalls.Add(1)

		return c.loader(ctx, key)
	})
	if err != nil {
		c.loaderErrors.Add(1)
		span.RecordError(err)
		c.cfg.logger.Debug("enrichcache: loader failed", "cache", c.cfg.namePrefix, "key", key.String(), "error", err)
		var zero V

		return zero, fmt.Errorf("%w: %w", ErrLoaderFailure, err)
	}
	value, _ := result.(V)

	ce.mu.Lock()
	if ce.gen == gen {
		c.lru.Add(key, cached[V]{value: value, gen: gen})
	}
	ce.mu.Unlock()

	return value, nil
}

// Put atomically installs value as the READY entry for key. Any load
// already in flight for key when Put is called will, on completion,
// discard its own result in favor of this one: last writer by
// completion time wins, where Put's completion is immediate.
func (c *Cache[K, V]) Put(key K, value V) {
	ce := c.cellFor(key)
	ce.mu.Lock()
	ce.gen++
	gen := ce.gen
	ce.mu.Unlock()

	c.lru.Add(key, cached[V]{value: value, gen: gen})
}

// Invalidate removes any READY entry for key. A load already in
// flight for key is left running so its awaiters are not orphaned,
// but its result will not be stored on completion; the next Get call
// after it finishes starts a fresh loader invocation.
func (c *Cache[K, V]) Invalidate(key K) {
	c.invalidations.Add(1)

	ce := c.cellFor(key)
	ce.mu.Lock()
	ce.gen++
	ce.mu.Unlock()

	c.lru.Remove(key)
}

// Stats reports cumulative diagnostics counters, named for use in
// metrics keyed by the cache's configured name prefix.
type Stats struct {
	NamePrefix    string
	Entries       int
	Hits          int64
	Misses        int64
	LoaderCalls   int64
	LoaderErrors  int64
	Invalidations int64
}

func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		NamePrefix:    c.cfg.namePrefix,
		Entries:       c.lru.Len(),
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		LoaderCalls:   c.loaderCalls.Load(),
		LoaderErrors:  c.loaderErrors.Load(),
		Invalidations: c.invalidations.Load(),
	}
}
