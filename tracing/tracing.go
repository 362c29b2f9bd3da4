// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package tracing assembles span export pipelines for one or more
// tracing backends and installs them behind a single TracerProvider.
package tracing

import (
	"context"
	"log/slog"

	"github.com/z5labs/ddexport/pkg/noop"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Configurator builds the span processor for a single tracing backend.
//
// A Configurator may return a nil SpanProcessor and nil error to signal
// that the backend is disabled.
type Configurator interface {
	Apply(context.Context, Trace) (sdktrace.SpanProcessor, error)
}

// ConfiguratorFunc is a func type which implements Configurator.
type ConfiguratorFunc func(context.Context, Trace) (sdktrace.SpanProcessor, error)

// Apply implements the Configurator interface.
func (f ConfiguratorFunc) Apply(ctx context.Context, t Trace) (sdktrace.SpanProcessor, error) {
	return f(ctx, t)
}

type loggerCtxKey struct{}

// WithLogger returns a copy of ctx which carries the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// LoggerFrom returns the logger carried by ctx. If ctx does not carry
// one, a logger which discards everything is returned.
func LoggerFrom(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger)
	if ok && logger != nil {
		return logger
	}
	return slog.New(noop.LogHandler{})
}
