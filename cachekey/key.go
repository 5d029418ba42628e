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

// Package cachekey defines the value-typed, hashable identity under
// which an enrichment cache stores a projection: the entity together
// with the context it was fetched for.
package cachekey

import (
	"sort"
	"strings"

	"github.com/twinproj/thingcache/jsonkernel"
	"github.com/twinproj/thingcache/thingevent"
)

// Key identifies one cached projection. Two keys are equal iff their
// entity ID, headers and enhanced selector are all equal. Key is
// comparable and usable directly as a map key or a generic cache's K
// type parameter.
type Key struct {
	EntityID string
	selector jsonkernel.FieldSelector
	headers  string
}

// New builds a Key from an entity ID, the caller's correlation
// headers and a field selector. The selector is enhanced (the
// revision field is always included) before it becomes part of the
// key's identity, per the projection contract.
func New(entityID string, headers thingevent.Headers, selector jsonkernel.FieldSelector) Key {
	return Key{
		EntityID: entityID,
		selector: selector.Enhanced(),
		headers:  digestHeaders(headers),
	}
}

// Selector returns the enhanced field selector bound to this key.
func (k Key) Selector() jsonkernel.FieldSelector {
	return k.selector
}

// String renders the key for logging and trace attributes.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.EntityID)
	b.WriteByte('|')
	b.WriteString(k.selector.String())
	b.WriteByte('|')
	b.WriteString(k.headers)

	return b.String()
}

// digestHeaders produces a canonical, order-independent string
// encoding of a headers map so it can participate in a comparable
// struct. Header values are caller-supplied correlation context, not
// secrets, so they are encoded directly rather than hashed.
func digestHeaders(h thingevent.Headers) string {
	if len(h) == 0 {
		return ""
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(h[k])
	}

	return b.String()
}
