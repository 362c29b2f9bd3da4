// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package datadog configures span export to a Datadog trace agent,
// renaming spans and deriving their resource the way Datadog expects.
package datadog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/z5labs/ddexport/exporter/datadogexporter"
	"github.com/z5labs/ddexport/pkg/slogfield"
	"github.com/z5labs/ddexport/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BackendName identifies this backend in logs and errors.
const BackendName = "datadog"

// Config for the Datadog tracing backend.
type Config struct {
	Endpoint       tracing.AgentEndpoint        `config:"endpoint"`
	BatchProcessor tracing.BatchProcessorConfig `config:"batch_processor"`

	// SpanNames defaults to DefaultSpanNameMapping.
	SpanNames SpanNameMapping `config:"-"`

	// SpanResources defaults to DefaultSpanResourceMapping.
	SpanResources SpanResourceMapping `config:"-"`
}

var _ tracing.Configurator = Config{}

// Apply implements the tracing.Configurator interface.
//
// The returned processor batches spans in the background and drops
// private attributes before they reach the agent.
func (c Config) Apply(ctx context.Context, t tracing.Trace) (sdktrace.SpanProcessor, error) {
	log := tracing.LoggerFrom(ctx)
	log.InfoContext(
		ctx,
		"configuring Datadog tracing",
		slog.Any("batch_processor", c.BatchProcessor),
		slogfield.String("endpoint", c.Endpoint.String()),
	)

	names := c.SpanNames
	if names == nil {
		names = DefaultSpanNameMapping()
	}
	resources := c.SpanResources
	if resources == nil {
		resources = DefaultSpanResourceMapping()
	}

	opts := []datadogexporter.Option{
		datadogexporter.ServiceName(t.Service()),
		datadogexporter.WithNameMapping(names.MapSpan),
		datadogexporter.WithResourceMapping(resources.MapResource),
		datadogexporter.LogHandler(log.With(slogfield.Backend(BackendName)).Handler()),
	}
	if u, ok := c.Endpoint.URL(); ok {
		opts = append(opts, datadogexporter.AgentEndpoint(strings.TrimRight(u.String(), "/")))
	}

	exp, err := datadogexporter.New(opts...)
	if err != nil {
		return nil, &tracing.ExporterInitError{Backend: BackendName, Cause: err}
	}

	bsp := sdktrace.NewBatchSpanProcessor(exp, c.BatchProcessor.Options()...)
	return tracing.Filtered(bsp), nil
}
