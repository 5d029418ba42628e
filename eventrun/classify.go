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

// Package eventrun partitions an incoming signal list into the thing
// events an enrichment request can actually fold over, and validates
// the resulting revision sequence before the smart-update decision
// engine acts on it.
package eventrun

import "github.com/twinproj/thingcache/thingevent"

// Run is the classified, ordered slice of thing events a caller's
// signal list reduces to, plus whether the run begins with a
// lifecycle-resetting event.
type Run struct {
	Events         []thingevent.Event
	LifecycleReset bool
}

// Headers returns the correlation headers of the last event in the
// original (pre-classification) signal list, or empty headers if the
// list was empty — the "nearest-in-time context" rule of §4.4.
func Headers(signals []thingevent.Signal) thingevent.Headers {
	for i := len(signals) - 1; i >= 0; i-- {
		if ev, ok := signals[i].(thingevent.Event); ok {
			return ev.Headers
		}
	}

	return thingevent.Headers{}
}

// Classify drops signals that are not thing events or are live, then
// discards all history before the latest CREATED/DELETED event (a
// lifecycle reset makes prior history irrelevant; MODIFIED never
// resets).
func Classify(signals []thingevent.Signal) Run {
	relevant := make([]thingevent.Event, 0, len(signals))
	for _, sig := range signals {
		ev, ok := sig.(thingevent.Event)
		if !ok || ev.IsLive {
			continue
		}
		relevant = append(relevant, ev)
	}

	resetIndex := -1
	for i, ev := range relevant {
		if ev.Kind.IsLifecycleReset() {
			resetIndex = i
		}
	}
	if resetIndex > 0 {
		relevant = relevant[resetIndex:]
	}

	return Run{
		Events:         relevant,
		LifecycleReset: len(relevant) > 0 && relevant[0].Kind.IsLifecycleReset(),
	}
}
