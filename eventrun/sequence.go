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

import "fmt"

// ValidateSequence checks a classified run against the caller's
// minimum acceptable revision and its own internal contiguity. It
// returns nil when the run is safe to fold, and a non-nil error
// (wrapping one of this package's sentinels) when the caller must
// invalidate and reload instead. Rejection is a value, never a panic:
// every branch here is a plain decision the smart-update engine acts
// on.
//
// minAcceptableRevision < 0 is the caller's "forced reload" signal and
// is handled one layer up, by the smart-update engine, before this
// function is even called; ValidateSequence only applies the
// min-revision check when minAcceptableRevision >= 0.
func ValidateSequence(run Run, minAcceptableRevision int64) error {
	for _, ev := range run.Events {
		switch {
		case ev.Revision == 0:
			return fmt.Errorf("%w: %w", ErrMalformedEvent, ev.Validate())
		case ev.Revision < 0:
			return fmt.Errorf("%w: revision %d", ErrInvariantViolation, ev.Revision)
		}
	}

	if minAcceptableRevision >= 0 {
		if len(run.Events) == 0 || run.Events[len(run.Events)-1].Revision < minAcceptableRevision {
			return fmt.Errorf("%w: want >= %d", ErrMinRevisionNotMet, minAcceptableRevision)
		}
	}

	for i := 1; i < len(run.Events); i++ {
		prev, cur := run.Events[i-1], run.Events[i]
		if cur.Revision != prev.Revision+1 {
			return fmt.Errorf("%w: %d -> %d", ErrRevisionGap, prev.Revision, cur.Revision)
		}
	}

	return nil
}
