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

package jsonkernel

import (
	"sort"
	"strings"
)

// RevisionField is the projection field every enhanced selector must
// include, so a cached projection can validate itself against incoming
// events without a second round trip.
const RevisionField = "revision"

// FieldSelector is an opaque, comparable value describing which
// top-level fields of a thing a caller wants projected. The zero value
// selects the whole thing. Selectors are value types so they can be
// embedded in a comparable cache key.
//
// Parsing a selector from a caller-facing grammar is out of scope for
// this package; callers construct selectors directly with
// NewFieldSelector.
type FieldSelector struct {
	// csv is a sorted, de-duplicated, comma-joined field list. Empty
	// means "whole thing" (identity projection).
	csv string
}

// NewFieldSelector builds a selector over the given top-level field
// names. No arguments (or only empty strings) means "whole thing."
func NewFieldSelector(fields ...string) FieldSelector {
	if len(fields) == 0 {
		return FieldSelector{}
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		seen[f] = struct{}{}
	}
	if len(seen) == 0 {
		return FieldSelector{}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)

	return FieldSelector{csv: strings.Join(out, ",")}
}

// IsWholeThing reports whether the selector selects the whole thing
// (the spec's "absent selector").
func (s FieldSelector) IsWholeThing() bool {
	return s.csv == ""
}

// Fields returns the selected top-level field names, sorted. Returns
// nil for the whole-thing selector.
func (s FieldSelector) Fields() []string {
	if s.csv == "" {
		return nil
	}

	return strings.Split(s.csv, ",")
}

// Enhanced returns a copy of the selector that always includes
// RevisionField, the "enhanced selector" of §3. The whole-thing
// selector is returned unchanged: it already includes every field.
func (s FieldSelector) Enhanced() FieldSelector {
	if s.IsWholeThing() {
		return s
	}

	return NewFieldSelector(append(s.Fields(), RevisionField)...)
}

// Contains reports whether the selector would retain the given
// top-level field.
func (s FieldSelector) Contains(field string) bool {
	if s.IsWholeThing() {
		return true
	}
	for _, f := range s.Fields() {
		if f == field {
			return true
		}
	}

	return false
}

func (s FieldSelector) String() string {
	if s.IsWholeThing() {
		return "*"
	}

	return s.csv
}
