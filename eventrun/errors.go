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

package eventrun

import "errors"

// ErrMalformedEvent indicates a signal was shaped like a persisted
// thing event but carried no revision. The smart-update engine treats
// the whole run as rejected.
var ErrMalformedEvent = errors.New("eventrun: malformed event, missing revision")

// ErrInvariantViolation indicates an event carried a negative revision,
// which the authority never assigns. Treated the same as a rejected
// run.
var ErrInvariantViolation = errors.New("eventrun: invariant violation, negative revision")

// ErrMinRevisionNotMet indicates the caller's minimum acceptable
// revision was not reached by the classified run.
var ErrMinRevisionNotMet = errors.New("eventrun: minimum acceptable revision not met")

// ErrRevisionGap indicates the classified run is not a contiguous +1
// revision sequence.
var ErrRevisionGap = errors.New("eventrun: revision sequence has a gap")
