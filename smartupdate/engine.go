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

// Package smartupdate is the decision engine: given a cached
// projection and a sequence of thing events, it chooses among
// use-cached, fold-locally and invalidate-and-reload, and orchestrates
// the mid-fold policy-change invalidation.
package smartupdate

import (
	"context"
	"log/slog"

	"github.com/twinproj/thingcache/cachekey"
	"github.com/twinproj/thingcache/enrichcache"
	"github.com/twinproj/thingcache/eventrun"
	"github.com/twinproj/thingcache/jsonkernel"
	"github.com/twinproj/thingcache/thingevent"
)

// UpstreamLoader performs the one authoritative retrieval consumed by
// the cache: one call per (entity, selector, headers) triple. On
// entity-not-found it must resolve with the empty object, not an
// error; network/server errors should be returned as-is.
type UpstreamLoader func(ctx context.Context, entityID string, selector jsonkernel.FieldSelector, headers thingevent.Headers) (jsonkernel.Object, error)

// Params bundles the smart_update inputs that vary per call: the
// signals accompanying the request, whether a mid-fold policy change
// should force a reload, and the caller's floor on acceptable
// revisions (negative meaning "force a reload unconditionally").
type Params struct {
	Signals                  []thingevent.Signal
	InvalidateOnPolicyChange bool
	MinAcceptableRevision    int64
}

// Engine owns the async single-flight cache and the upstream loader it
// fronts, and implements the smart-update decision procedure over
// them.
type Engine struct {
	cache  *enrichcache.Cache[cachekey.Key, jsonkernel.Object]
	logger *slog.Logger
}

// New builds an Engine. opts configure the underlying cache (size,
// expiration, name prefix, logging, tracing); see enrichcache.Option.
func New(loader UpstreamLoader, opts ...enrichcache.Option) *Engine {
	e := &Engine{logger: slog.Default()}

	adapted := enrichcache.Loader[cachekey.Key, jsonkernel.Object](
		func(ctx context.Context, key cachekey.Key) (jsonkernel.Object, error) {
			return loader(ctx, key.EntityID, key.Selector(), headersFromContext(ctx))
		},
	)
	e.cache = enrichcache.New(adapted, opts...)

	return e
}

// Stats exposes the underlying cache's diagnostics counters.
func (e *Engine) Stats() enrichcache.Stats {
	return e.cache.Stats()
}

// SmartUpdate implements §4.4: classify and validate signals, then
// choose use-cached, fold, or invalidate-and-reload.
func (e *Engine) SmartUpdate(ctx context.Context, key cachekey.Key, params Params) (jsonkernel.Object, error) {
	headers := eventrun.Headers(params.Signals)

	if params.MinAcceptableRevision < 0 {
		e.cache.Invalidate(key)

		return e.load(ctx, key, headers)
	}

	run := eventrun.Classify(params.Signals)

	// An empty run after classification means there is nothing to
	// validate or fold: return whatever is cached (loading if absent)
	// rather than letting the sequence validator's empty-list clause
	// (meant for "caller demanded revision >= N but gave no events to
	// prove it") turn a plain no-new-events read into a forced reload.
	if len(run.Events) == 0 {
		return e.load(ctx, key, headers)
	}

	if err := eventrun.ValidateSequence(run, params.MinAcceptableRevision); err != nil {
		e.logger.Debug("smartupdate: rejected event run, invalidating", "key", key.String(), "error", err)
		e.cache.Invalidate(key)

		return e.load(ctx, key, headers)
	}

	if run.LifecycleReset {
		return e.foldAndStore(ctx, key, jsonkernel.Empty(), run.Events, params.InvalidateOnPolicyChange)
	}

	cached, err := e.load(ctx, key, headers)
	if err != nil {
		return jsonkernel.Empty(), err
	}

	r0 := cached.Revision()
	kept := make([]thingevent.Event, 0, len(run.Events))
	for _, ev := range run.Events {
		if ev.Revision > r0 {
			kept = append(kept, ev)
		}
	}

	switch {
	case len(kept) == 0:
		return cached, nil
	case kept[0].Revision == r0+1:
		return e.foldAndStore(ctx, key, cached, kept, params.InvalidateOnPolicyChange)
	default:
		e.logger.Debug("smartupdate: revision gap between cache and events, invalidating",
			"key", key.String(), "cached_revision", r0, "next_event_revision", kept[0].Revision)
		e.cache.Invalidate(key)

		return e.load(ctx, key, headers)
	}
}

func (e *Engine) load(ctx context.Context, key cachekey.Key, headers thingevent.Headers) (jsonkernel.Object, error) {
	return e.cache.Get(withHeaders(ctx, headers), key)
}

func (e *Engine) foldAndStore(
	ctx context.Context,
	key cachekey.Key,
	base jsonkernel.Object,
	events []thingevent.Event,
	invalidateOnPolicyChange bool,
) (jsonkernel.Object, error) {
	folded, reloaded, err := e.fold(ctx, key, base, events, invalidateOnPolicyChange)
	if err != nil || reloaded {
		return folded, err
	}

	projected := folded
	if !key.Selector().IsWholeThing() {
		projected, err = jsonkernel.Project(folded, key.Selector())
		if err != nil {
			return jsonkernel.Empty(), err
		}
	}

	e.cache.Put(key, projected)

	return projected, nil
}
