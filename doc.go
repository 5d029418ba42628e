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

// Package thingcache is a node-local, asynchronous, read-through cache
// that maintains a partial JSON projection of a remote thing and keeps
// it current by folding in the stream of thing events that arrive
// alongside each enrichment request, instead of round-tripping to the
// authoritative store on every call.
//
// Two entry points cover the public surface: RetrieveFull returns the
// whole cached thing, and RetrievePartial returns a field-selector
// restricted projection. Both fold in any accompanying events before
// returning, via the packages under enrichcache, eventrun and
// smartupdate.
package thingcache
