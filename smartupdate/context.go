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

	"github.com/twinproj/thingcache/thingevent"
)

// enrichcache.Loader is keyed solely by cachekey.Key, but the upstream
// loader contract (§6) also needs the correlation headers for this
// particular call. Those headers are request-scoped and change on
// every smart_update call for the same key, so they travel as a
// context value rather than as cache key state.
type headersContextKey struct{}

func withHeaders(ctx context.Context, h thingevent.Headers) context.Context {
	return context.WithValue(ctx, headersContextKey{}, h)
}

func headersFromContext(ctx context.Context) thingevent.Headers {
	h, _ := ctx.Value(headersContextKey{}).(thingevent.Headers)

	return h
}
