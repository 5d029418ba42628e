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

package enrichcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type strKey string

func (k strKey) String() string { return string(k) }

func TestGetIsReadThrough(t *testing.T) {
	var calls atomic.Int32
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		calls.Add(1)

		return 42, nil
	}))

	v, err := c.Get(context.Background(), strKey("a"))
	if err != nil || v != 42 {
		t.Fatalf("Get() = (%v, %v), want (42, nil)", v, err)
	}

	v, err = c.Get(context.Background(), strKey("a"))
	if err != nil || v != 42 {
		t.Fatalf("second Get() = (%v, %v), want (42, nil)", v, err)
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1 (cache hit should skip it)", calls.Load())
	}
}

func TestSingleFlight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		calls.Add(1)
		<-release

		return 7, nil
	}))

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), strKey("k"))
			if err != nil || v != 7 {
				t.Errorf("Get() = (%v, %v), want (7, nil)", v, err)
			}
		}()
	}

	// Give every goroutine a chance to reach the blocked loader call
	// before releasing it, so they all join the same in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("loader called %d times concurrently for the same key, want 1", calls.Load())
	}
}

func TestLoaderFailurePropagatesAndDoesNotCache(t *testing.T) {
	var calls atomic.Int32
	wantErr := errors.New("upstream unavailable")
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		calls.Add(1)

		return 0, wantErr
	}))

	_, err := c.Get(context.Background(), strKey("a"))
	if !errors.Is(err, ErrLoaderFailure) || !errors.Is(err, wantErr) {
		t.Fatalf("Get() error = %v, want wrapping ErrLoaderFailure and %v", err, wantErr)
	}

	_, err = c.Get(context.Background(), strKey("a"))
	if err == nil {
		t.Fatal("second Get() succeeded after a failed load; failure must not poison the cache as a negative cache entry, but it must also not have silently succeeded without calling the loader again")
	}
	if calls.Load() != 2 {
		t.Errorf("loader called %d times, want 2 (a failed load must not be cached)", calls.Load())
	}
}

func TestPutInstallsReadyValue(t *testing.T) {
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		return -1, fmt.Errorf("loader should not be called")
	}))

	c.Put(strKey("a"), 99)
	v, err := c.Get(context.Background(), strKey("a"))
	if err != nil || v != 99 {
		t.Fatalf("Get() after Put() = (%v, %v), want (99, nil)", v, err)
	}
}

func TestInvalidateRemovesReadyEntry(t *testing.T) {
	var calls atomic.Int32
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		calls.Add(1)

		return int(calls.Load()), nil
	}))

	v, _ := c.Get(context.Background(), strKey("a"))
	if v != 1 {
		t.Fatalf("first Get() = %d, want 1", v)
	}

	c.Invalidate(strKey("a"))

	v, _ = c.Get(context.Background(), strKey("a"))
	if v != 2 {
		t.Fatalf("Get() after Invalidate() = %d, want 2 (a fresh load)", v)
	}
}

// TestPutSupersedesInFlightLoad exercises the completion-order
// semantics of §4.6: a Put that lands while a load is in flight
// causes that load's eventual result to be discarded, even though the
// load's own awaiter still observes the loader's value.
func TestPutSupersedesInFlightLoad(t *testing.T) {
	loaderEntered := make(chan struct{})
	releaseLoader := make(chan struct{})
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		close(loaderEntered)
		<-releaseLoader

		return 1, nil
	}))

	var loadResult int
	var loadErr error
	done := make(chan struct{})
	go func() {
		loadResult, loadErr = c.Get(context.Background(), strKey("a"))
		close(done)
	}()

	<-loaderEntered
	c.Put(strKey("a"), 2)
	close(releaseLoader)
	<-done

	if loadErr != nil || loadResult != 1 {
		t.Fatalf("awaiter of the in-flight load got (%v, %v), want (1, nil): it must see the loader's own value",
			loadResult, loadErr)
	}

	v, err := c.Get(context.Background(), strKey("a"))
	if err != nil || v != 2 {
		t.Fatalf("cached value after the race = (%v, %v), want (2, nil): Put must win over the stale load", v, err)
	}
}

// TestInvalidateDuringInFlightLoadSuppressesStore exercises the other
// half of the same rule: invalidate() leaves the in-flight future
// intact for its awaiters, but its result must never be (re)written
// into the ready map.
func TestInvalidateDuringInFlightLoadSuppressesStore(t *testing.T) {
	loaderEntered := make(chan struct{})
	releaseLoader := make(chan struct{})
	var calls atomic.Int32
	var enteredOnce sync.Once
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		calls.Add(1)
		enteredOnce.Do(func() { close(loaderEntered) })
		<-releaseLoader

		return 1, nil
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := c.Get(context.Background(), strKey("a"))
		if err != nil || v != 1 {
			t.Errorf("awaiter of the in-flight load got (%v, %v), want (1, nil)", v, err)
		}
	}()

	<-loaderEntered
	c.Invalidate(strKey("a"))
	close(releaseLoader)
	<-done

	calls.Store(0)
	v, err := c.Get(context.Background(), strKey("a"))
	if err != nil || v != 1 {
		t.Fatalf("Get() after the race = (%v, %v), want (1, nil)", v, err)
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times after invalidate, want 1: the suppressed load's result must not have been cached", calls.Load())
	}
}

func TestStats(t *testing.T) {
	c := New(Loader[strKey, int](func(_ context.Context, _ strKey) (int, error) {
		return 1, nil
	}), WithNamePrefix("mycache"))

	_, _ = c.Get(context.Background(), strKey("a"))
	_, _ = c.Get(context.Background(), strKey("a"))
	c.Invalidate(strKey("a"))

	stats := c.Stats()
	if stats.NamePrefix != "mycache" {
		t.Errorf("NamePrefix = %q, want %q", stats.NamePrefix, "mycache")
	}
	if stats.Hits != 1 || stats.Misses != 1 || stats.LoaderCalls != 1 || stats.Invalidations != 1 {
		t.Errorf("Stats() = %+v, want Hits=1 Misses=1 LoaderCalls=1 Invalidations=1", stats)
	}
}
