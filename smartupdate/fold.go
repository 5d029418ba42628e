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

package smartupdate

import (
	"context"

	"github.com/twinproj/thingcache/cachekey"
	"github.com/twinproj/thingcache/jsonkernel"
	"github.com/twinproj/thingcache/thingevent"
)

// fold applies events to base in order (§4.5), returning the folded
// projection. If invalidateOnPolicyChange is set and an event changes
// policy_id mid-fold, the partial fold is discarded: the cache entry
// is invalidated and a fresh load is performed with the triggering
// event's headers, and the second return value is true to tell the
// caller not to Put the (discarded) folded value.
func (e *Engine) fold(
	ctx context.Context,
	key cachekey.Key,
	base jsonkernel.Object,
	events []thingevent.Event,
	invalidateOnPolicyChange bool,
) (jsonkernel.Object, bool, error) {
	cachedPolicyID, hasCachedPolicy := base.PolicyID()

	obj := base
	for _, ev := range events {
		var err error
		switch ev.Kind {
		case thingevent.KindMerged:
			obj, err = jsonkernel.Merge(obj, ev.ResourcePath, ev.Payload)
		case thingevent.KindDeleted:
			obj, err = jsonkernel.Delete(obj, ev.ResourcePath)
		case thingevent.KindCreated, thingevent.KindModified:
			obj, err = jsonkernel.Overlay(obj, ev.ResourcePath, ev.Payload)
		default:
			obj, err = jsonkernel.Overlay(obj, ev.ResourcePath, ev.Payload)
		}
		if err != nil {
			return jsonkernel.Empty(), false, err
		}

		if invalidateOnPolicyChange && hasCachedPolicy {
			if newPolicyID, ok := obj.PolicyID(); ok && newPolicyID != cachedPolicyID {
				e.cache.Invalidate(key)
				reloaded, err := e.load(ctx, key, ev.Headers)

				return reloaded, true, err
			}
		}
	}

	final, err := obj.WithRevision(events[len(events)-1].Revision)
	if err != nil {
		return jsonkernel.Empty(), false, err
	}

	return final, false, nil
}
