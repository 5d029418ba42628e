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
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Merge applies an RFC 7396 JSON Merge Patch to base at path, for
// MERGED events. It builds the singleton patch document {path:
// payload} and merges it in: object fields merge recursively, a null
// in the patch deletes the corresponding field, and non-object values
// replace wholesale. If base is not itself a JSON object, the result
// is the patch document (base is replaced wholesale).
func Merge(base Object, path string, payload []byte) (Object, error) {
	patchDoc, err := nestAt(path, payload)
	if err != nil {
		return base, err
	}

	merged, err := jsonpatch.MergePatch(normalize(base), patchDoc)
	if err != nil {
		return base, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return Object(merged), nil
}

// Delete removes the subtree addressed by path, for DELETED events. An
// empty path (document root) collapses the whole projection to the
// empty object. A missing path is a no-op.
func Delete(base Object, path string) (Object, error) {
	if path == "" {
		return Empty(), nil
	}
	segments, err := pointerSegments(path)
	if err != nil {
		return base, err
	}

	out, err := sjson.DeleteBytes(normalize(base), gjsonPath(segments))
	if err != nil {
		return base, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return Object(out), nil
}

// Overlay sets the subtree at path to value, for CREATED/MODIFIED
// events, creating intermediate objects as needed. An empty path with
// an object value copies every top-level field of value into base,
// overwriting matching fields. An empty path with a non-object value
// replaces base outright.
func Overlay(base Object, path string, value []byte) (Object, error) {
	if path == "" {
		return overlayRoot(base, value)
	}
	segments, err := pointerSegments(path)
	if err != nil {
		return base, err
	}

	out, err := sjson.SetRawBytes(normalize(base), gjsonPath(segments), value)
	if err != nil {
		return base, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return Object(out), nil
}

func overlayRoot(base Object, value []byte) (Object, error) {
	parsed := gjson.ParseBytes(value)
	if !parsed.IsObject() {
		return Object(value), nil
	}

	out := normalize(base)
	var err error
	parsed.ForEach(func(key, val gjson.Result) bool {
		out, err = sjson.SetRawBytes(out, escapeSegment(key.String()), []byte(val.Raw))

		return err == nil
	})
	if err != nil {
		return base, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return Object(out), nil
}

// nestAt builds {path: payload} as a raw JSON document. An empty path
// yields payload itself (the root patch document).
func nestAt(path string, payload []byte) ([]byte, error) {
	if path == "" {
		return payload, nil
	}
	segments, err := pointerSegments(path)
	if err != nil {
		return nil, err
	}

	out, err := sjson.SetRawBytes([]byte("{}"), gjsonPath(segments), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMergePatchFailed, err)
	}

	return out, nil
}

// Project returns the subset of obj matching selector. The whole-thing
// selector is the identity projection.
func Project(obj Object, selector FieldSelector) (Object, error) {
	if selector.IsWholeThing() {
		return obj, nil
	}
	if obj.IsEmpty() {
		return Empty(), nil
	}

	out := []byte("{}")
	base := normalize(obj)
	for _, field := range selector.Fields() {
		res := gjson.GetBytes(base, escapeSegment(field))
		if !res.Exists() {
			continue
		}
		var err error
		out, err = sjson.SetRawBytes(out, escapeSegment(field), []byte(res.Raw))
		if err != nil {
			return obj, fmt.Errorf("%w: %w", ErrSelectorProjection, err)
		}
	}

	return Object(out), nil
}
