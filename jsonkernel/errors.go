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

import "errors"

// ErrInvalidPointer indicates a resource path is not a well-formed JSON
// Pointer (RFC 6901): it is non-empty and does not start with "/".
var ErrInvalidPointer = errors.New("jsonkernel: invalid json pointer")

// ErrMergePatchFailed indicates the underlying RFC 7396 merge patch
// application failed, typically because the base projection was not
// valid JSON.
var ErrMergePatchFailed = errors.New("jsonkernel: merge patch failed")

// ErrSelectorProjection indicates a field selector could not be applied
// to a projection. Per the error handling design, this is surfaced to
// the caller and never poisons the cache.
var ErrSelectorProjection = errors.New("jsonkernel: selector projection failed")
