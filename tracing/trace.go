// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// DefaultServiceName is reported when no service name is configured.
const DefaultServiceName = "router"

// Trace is the backend independent tracing config.
type Trace struct {
	ServiceName string            `config:"service_name"`
	Sampler     *float64          `config:"sampler"`
	ParentBased *bool             `config:"parent_based_sampler"`
	Attributes  map[string]string `config:"attributes"`

	MaxEventsPerSpan     *int `config:"max_events_per_span"`
	MaxAttributesPerSpan *int `config:"max_attributes_per_span"`
	MaxLinksPerSpan      *int `config:"max_links_per_span"`
}

// Service returns the configured service name or DefaultServiceName.
func (t Trace) Service() string {
	if t.ServiceName == "" {
		return DefaultServiceName
	}
	return t.ServiceName
}

// Resource describes the traced service. Attributes found by the
// detectors are overridden by the configured ones.
func (t Trace) Resource(ctx context.Context, detectors ...resource.Detector) (*resource.Resource, error) {
	attrs := make([]attribute.KeyValue, 0, len(t.Attributes)+1)
	for k, v := range t.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	attrs = append(attrs, semconv.ServiceName(t.Service()))

	return resource.New(
		ctx,
		resource.WithDetectors(detectors...),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
}

// SamplerFor converts the sampling ratio into a sampler. Spans are
// always sampled when no ratio is configured. Unless disabled, the
// sampling decision of a remote parent is respected.
func (t Trace) SamplerFor() sdktrace.Sampler {
	var s sdktrace.Sampler
	switch {
	case t.Sampler == nil || *t.Sampler >= 1:
		s = sdktrace.AlwaysSample()
	case *t.Sampler <= 0:
		s = sdktrace.NeverSample()
	default:
		s = sdktrace.TraceIDRatioBased(*t.Sampler)
	}
	if t.ParentBased != nil && !*t.ParentBased {
		return s
	}
	return sdktrace.ParentBased(s)
}

// SpanLimits overlays the configured limits onto the SDK defaults.
func (t Trace) SpanLimits() sdktrace.SpanLimits {
	limits := sdktrace.NewSpanLimits()
	if t.MaxEventsPerSpan != nil {
		limits.EventCountLimit = *t.MaxEventsPerSpan
	}
	if t.MaxAttributesPerSpan != nil {
		limits.AttributeCountLimit = *t.MaxAttributesPerSpan
	}
	if t.MaxLinksPerSpan != nil {
		limits.LinkCountLimit = *t.MaxLinksPerSpan
	}
	return limits
}
