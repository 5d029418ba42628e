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

// Package telemetry is the trimmed-down ambient tracing helper shared
// by the cache and decision-engine packages. It wraps
// go.opentelemetry.io/otel so callers can start a span without caring
// whether a tracer was actually configured.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span wraps an otel trace.Span. The zero value is a no-op, so callers
// that did not configure a tracer can use it unconditionally.
type Span struct {
	span trace.Span
}

// Start begins a span named name under tracer, or returns a no-op
// Span if tracer is nil.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	if tracer == nil {
		return ctx, Span{}
	}
	spanCtx, span := tracer.Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}

	return spanCtx, Span{span: span}
}

// RecordError records err on the span and marks it as failed, if the
// span is real and err is non-nil.
func (s Span) RecordError(err error) {
	if s.span == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttributes attaches attrs to the span, a no-op on a zero Span.
func (s Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

// End closes the span, a no-op on a zero Span.
func (s Span) End() {
	if s.span == nil {
		return
	}
	s.span.End()
}
