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

// Package jsonkernel implements the pure, side-effect-free JSON
// operations the caching engine folds events through: RFC 7396 merge
// patch, JSON-Pointer-addressed delete and overlay, field-selector
// projection, and revision/policy extraction.
package jsonkernel

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Object is a JSON object, represented as its raw encoded bytes. Kernel
// operations read and write it directly with gjson/sjson/jsonpatch
// rather than round-tripping through map[string]any, so a fold over a
// long event run does one allocation per step instead of two.
//
// A nil or empty Object is the sentinel for "no known state" (§3): a
// thing pre-load or post-delete.
type Object []byte

// Empty returns the canonical empty projection.
func Empty() Object {
	return Object("{}")
}

// IsEmpty reports whether the object carries no known state.
func (o Object) IsEmpty() bool {
	trimmed := bytes.TrimSpace(o)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null"))
}

// Revision extracts the integer revision field, defaulting to 0 when
// absent, per §4.1's revision_of.
func (o Object) Revision() int64 {
	if o.IsEmpty() {
		return 0
	}

	return gjson.GetBytes(o, RevisionField).Int()
}

// PolicyID extracts the policy_id field, if present.
func (o Object) PolicyID() (string, bool) {
	if o.IsEmpty() {
		return "", false
	}
	res := gjson.GetBytes(o, "policy_id")
	if !res.Exists() {
		return "", false
	}

	return res.String(), true
}

// WithRevision returns a copy of o with its revision field overwritten
// to rev, per fold step 4: the final event's revision always wins,
// regardless of what any individual event's patch touched.
func (o Object) WithRevision(rev int64) (Object, error) {
	out, err := sjson.SetBytes(normalize(o), RevisionField, rev)
	if err != nil {
		return o, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return Object(out), nil
}

// Clone returns an independent copy of the object's bytes. Cached
// projections are immutable snapshots; callers that intend to hand a
// projection to code outside this package's control should clone it
// first so nobody can mutate the cache's copy in place.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	copy(out, o)

	return out
}

func normalize(o Object) []byte {
	if o.IsEmpty() {
		return []byte("{}")
	}

	return []byte(o)
}
