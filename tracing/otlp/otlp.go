// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otlp configures span export to an OTLP collector over gRPC.
package otlp

import (
	"context"
	"errors"

	"github.com/z5labs/ddexport/pkg/slogfield"
	"github.com/z5labs/ddexport/tracing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// BackendName identifies this backend in logs and errors.
const BackendName = "otlp"

var errMissingTarget = errors.New("target must be set")

// Config for the OTLP tracing backend.
type Config struct {
	// gRPC target of the collector, e.g. "otel-collector:4317"
	Target string `config:"target"`

	BatchProcessor tracing.BatchProcessorConfig `config:"batch_processor"`
}

var _ tracing.Configurator = Config{}

// Apply implements the tracing.Configurator interface.
func (c Config) Apply(ctx context.Context, t tracing.Trace) (sdktrace.SpanProcessor, error) {
	log := tracing.LoggerFrom(ctx)
	log.InfoContext(ctx, "configuring OTLP tracing", slogfield.String("target", c.Target))

	if c.Target == "" {
		return nil, &tracing.ExporterInitError{
			Backend: BackendName,
			Cause:   &tracing.ConfigValidationError{Field: "target", Value: c.Target, Cause: errMissingTarget},
		}
	}

	exp, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(c.Target),
		// Note the use of insecure transport here. TLS is recommended in production.
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		return nil, &tracing.ExporterInitError{Backend: BackendName, Cause: err}
	}

	bsp := sdktrace.NewBatchSpanProcessor(exp, c.BatchProcessor.Options()...)
	return tracing.Filtered(bsp), nil
}
