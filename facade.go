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

package thingcache

import (
	"context"

	"github.com/twinproj/thingcache/cachekey"
	"github.com/twinproj/thingcache/enrichcache"
	"github.com/twinproj/thingcache/jsonkernel"
	"github.com/twinproj/thingcache/smartupdate"
	"github.com/twinproj/thingcache/thingevent"
)

// Loader is the upstream facade this cache fronts: one authoritative
// retrieval per (entity, selector, headers) triple. See
// smartupdate.UpstreamLoader for the entity-not-found contract.
type Loader = smartupdate.UpstreamLoader

// Cache is the public facade: two operations, retrieve_full and
// retrieve_partial, that glue the decision engine, the patch kernel
// and the single-flight cache together and re-project the result
// through the caller's selector.
type Cache struct {
	engine *smartupdate.Engine
}

// New builds a Cache fronting loader. opts tune the underlying
// single-flight cache (size, expiration, name prefix, logging,
// tracing); see enrichcache.Option.
func New(loader Loader, opts ...enrichcache.Option) *Cache {
	return &Cache{engine: smartupdate.New(loader, opts...)}
}

// Stats exposes the underlying cache's diagnostics counters, named for
// the configured cache_name_prefix.
func (c *Cache) Stats() enrichcache.Stats {
	return c.engine.Stats()
}

// RetrieveFull returns the whole cached thing for entityID, folding in
// events first. A negative minAcceptableRevision forces an
// invalidate-and-reload; otherwise the events are classified,
// validated and folded per the smart-update decision procedure.
// Absent data yields the empty object, never an error.
func (c *Cache) RetrieveFull(
	ctx context.Context,
	entityID string,
	events []thingevent.Signal,
	minAcceptableRevision int64,
) (jsonkernel.Object, error) {
	key := cachekey.New(entityID, nil, jsonkernel.NewFieldSelector())

	return c.engine.SmartUpdate(ctx, key, smartupdate.Params{
		Signals:               events,
		MinAcceptableRevision: minAcceptableRevision,
	})
}

// RetrievePartial returns the projection of entityID restricted to
// selector, folding in concernedSignal first if non-nil. The selector
// is enhanced (revision always included) for the cache key and the
// fold, then the result is re-projected through the caller's original
// selector before it is returned, so no field outside it is ever
// observed by the caller (revision included, if it was not
// originally requested).
func (c *Cache) RetrievePartial(
	ctx context.Context,
	entityID string,
	selector jsonkernel.FieldSelector,
	headers thingevent.Headers,
	concernedSignal thingevent.Signal,
) (jsonkernel.Object, error) {
	key := cachekey.New(entityID, headers, selector)

	var signals []thingevent.Signal
	if concernedSignal != nil {
		signals = []thingevent.Signal{concernedSignal}
	}

	result, err := c.engine.SmartUpdate(ctx, key, smartupdate.Params{
		Signals:                  signals,
		InvalidateOnPolicyChange: true,
		MinAcceptableRevision:    0,
	})
	if err != nil {
		return jsonkernel.Empty(), err
	}

	return jsonkernel.Project(result, selector)
}
