// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a slog.Handler which correlates log records
// with the active span using the attribute names Datadog log pipelines
// look for (dd.trace_id, dd.span_id).
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/ddexport/internal/ddid"
	"github.com/z5labs/ddexport/pkg/slogfield"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Handler.
type Option func(*Handler)

// Service adds dd.service to every correlated record.
func Service(name string) Option {
	return func(h *Handler) {
		h.service = name
	}
}

// Handler is an slog.Handler which adds the Datadog formatted trace and
// span ids of the span found in the record's context.
type Handler struct {
	slog    slog.Handler
	service string
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	handler := &Handler{slog: h}
	for _, opt := range opts {
		opt(handler)
	}
	return handler
}

// New provides a simple wrapper for slog.New(NewHandler(h, opts...)).
func New(h slog.Handler, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	attrs := []any{
		slogfield.String("trace_id", ddid.FormatTraceID(spanCtx.TraceID())),
		slogfield.String("span_id", ddid.FormatSpanID(spanCtx.SpanID())),
	}
	if h.service != "" {
		attrs = append(attrs, slogfield.String("service", h.service))
	}

	r := record.Clone()
	r.AddAttrs(slog.Group("dd", attrs...))
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{slog: h.slog.WithAttrs(attrs), service: h.service}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{slog: h.slog.WithGroup(name), service: h.service}
}
