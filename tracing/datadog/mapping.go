// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package datadog

import (
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// FallbackSpanName is the Datadog operation name of any span whose
// name is not in the SpanNameMapping.
const FallbackSpanName = "apollo_router"

// Internal span names emitted by the router instrumentation.
const (
	RequestSpanName         = "request"
	RouterSpanName          = "router"
	SupergraphSpanName      = "supergraph"
	QueryPlanningSpanName   = "query_planning"
	ExecutionSpanName       = "execution"
	FetchSpanName           = "fetch"
	SubgraphSpanName        = "subgraph"
	SubgraphRequestSpanName = "subgraph_request"
)

// OperationNameKey is the attribute carrying the GraphQL operation name.
const OperationNameKey = attribute.Key("graphql.operation.name")

// SpanNameMapping maps internal span names to Datadog operation names.
// It must not be modified once handed to an exporter.
type SpanNameMapping map[string]string

// DefaultSpanNameMapping returns the router's span name table.
func DefaultSpanNameMapping() SpanNameMapping {
	return SpanNameMapping{
		RequestSpanName:         "supergraph.request",
		RouterSpanName:          "supergraph.router",
		SupergraphSpanName:      "supergraph.operation",
		QueryPlanningSpanName:   "supergraph.query_planning",
		ExecutionSpanName:       "supergraph.execute",
		FetchSpanName:           "supergraph.fetch",
		SubgraphSpanName:        "subgraph.operation",
		SubgraphRequestSpanName: "subgraph.request",
	}
}

// MapName returns the Datadog operation name for an internal span name.
func (m SpanNameMapping) MapName(kind string) string {
	if name, ok := m[kind]; ok {
		return name
	}
	return FallbackSpanName
}

// MapSpan is MapName applied to the span's name.
func (m SpanNameMapping) MapSpan(s sdktrace.ReadOnlySpan) string {
	return m.MapName(s.Name())
}

// SpanResourceMapping maps internal span names to the attribute
// holding the span's Datadog resource.
// It must not be modified once handed to an exporter.
type SpanResourceMapping map[string]attribute.Key

// DefaultSpanResourceMapping returns the router's resource table.
func DefaultSpanResourceMapping() SpanResourceMapping {
	return SpanResourceMapping{
		RequestSpanName:         semconv.HTTPRouteKey,
		SupergraphSpanName:      OperationNameKey,
		QueryPlanningSpanName:   OperationNameKey,
		SubgraphSpanName:        OperationNameKey,
		SubgraphRequestSpanName: OperationNameKey,
	}
}

// MapResource returns the string value of the span attribute named by
// the mapping. The span name is returned when the span kind is not
// mapped, the attribute is absent or its value is not a string.
func (m SpanResourceMapping) MapResource(s sdktrace.ReadOnlySpan) string {
	name := s.Name()
	key, ok := m[name]
	if !ok {
		return name
	}
	for _, kv := range s.Attributes() {
		if kv.Key != key {
			continue
		}
		if kv.Value.Type() != attribute.STRING {
			return name
		}
		return kv.Value.AsString()
	}
	return name
}
