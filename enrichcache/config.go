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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const defaultMaxEntries = 10_000

// config holds the tunables enumerated by the configuration surface:
// maximum_size, expire_after_write, expire_after_access and
// cache_name_prefix, plus the ambient logger and tracer.
type config struct {
	maxEntries       int
	expireAfterWrite time.Duration
	expireAfterAccess time.Duration
	namePrefix       string
	logger           *slog.Logger
	tracer           trace.Tracer
}

func defaultConfig() config {
	return config{
		maxEntries: defaultMaxEntries,
		namePrefix: "enrichcache",
		logger:     slog.Default(),
	}
}

// Option configures a Cache at construction time.
type Option func(*config)

// WithMaxEntries caps the number of READY entries the cache holds.
// Non-positive values are ignored.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithExpireAfterWrite evicts an entry once d has elapsed since it was
// last written via a successful load or an explicit Put.
func WithExpireAfterWrite(d time.Duration) Option {
	return func(c *config) {
		c.expireAfterWrite = d
	}
}

// WithExpireAfterAccess approximates a sliding-window expiration: when
// d is positive, a cache hit re-inserts the entry, restarting its
// expire-after-write clock. The refreshed lifetime is the
// expire-after-write duration, not d; d only switches refresh-on-read
// on, and no separate access window of length d is kept.
func WithExpireAfterAccess(d time.Duration) Option {
	return func(c *config) {
		c.expireAfterAccess = d
	}
}

// WithNamePrefix sets the name used only for diagnostics (log records,
// trace span names and Stats); it has no bearing on cache behavior.
func WithNamePrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.namePrefix = prefix
		}
	}
}

// WithLogger overrides the structured logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer used to span loader
// invocations.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}
