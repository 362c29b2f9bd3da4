// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gcp configures span export directly to Google Cloud Trace.
package gcp

import (
	"context"
	"errors"

	"github.com/z5labs/ddexport/pkg/slogfield"
	"github.com/z5labs/ddexport/tracing"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/api/option"
)

// BackendName identifies this backend in logs and errors.
const BackendName = "gcp"

var errMissingProjectID = errors.New("project id must be set")

// Config for the Google Cloud Trace backend.
type Config struct {
	ProjectID string `config:"project_id"`

	BatchProcessor tracing.BatchProcessorConfig `config:"batch_processor"`

	// ClientOptions are appended to the trace client options.
	ClientOptions []option.ClientOption `config:"-"`
}

var (
	_ tracing.Configurator     = Config{}
	_ tracing.ResourceDetector = Config{}
)

// Detectors implements the tracing.ResourceDetector interface.
func (Config) Detectors() []resource.Detector {
	return []resource.Detector{gcp.NewDetector()}
}

// Apply implements the tracing.Configurator interface.
func (c Config) Apply(ctx context.Context, t tracing.Trace) (sdktrace.SpanProcessor, error) {
	log := tracing.LoggerFrom(ctx)
	log.InfoContext(ctx, "configuring Google Cloud tracing", slogfield.String("project_id", c.ProjectID))

	if c.ProjectID == "" {
		return nil, &tracing.ExporterInitError{
			Backend: BackendName,
			Cause:   &tracing.ConfigValidationError{Field: "project_id", Value: c.ProjectID, Cause: errMissingProjectID},
		}
	}

	clientOpts := append([]option.ClientOption{option.WithTelemetryDisabled()}, c.ClientOptions...)
	exp, err := texporter.New(
		texporter.WithProjectID(c.ProjectID),
		texporter.WithContext(ctx),
		texporter.WithTraceClientOptions(clientOpts),
	)
	if err != nil {
		return nil, &tracing.ExporterInitError{Backend: BackendName, Cause: err}
	}

	bsp := sdktrace.NewBatchSpanProcessor(exp, c.BatchProcessor.Options()...)
	return tracing.Filtered(bsp), nil
}
