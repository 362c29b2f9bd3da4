// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stdout configures span export as JSON to a local writer.
package stdout

import (
	"context"
	"io"
	"os"

	"github.com/z5labs/ddexport/tracing"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BackendName identifies this backend in logs and errors.
const BackendName = "stdout"

// Config for the stdout tracing backend.
type Config struct {
	Pretty bool `config:"pretty"`

	// Out defaults to os.Stdout.
	Out io.Writer `config:"-"`
}

var _ tracing.Configurator = Config{}

// Apply implements the tracing.Configurator interface.
func (c Config) Apply(ctx context.Context, t tracing.Trace) (sdktrace.SpanProcessor, error) {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if c.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}

	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, &tracing.ExporterInitError{Backend: BackendName, Cause: err}
	}
	return tracing.Filtered(sdktrace.NewSimpleSpanProcessor(exp)), nil
}
