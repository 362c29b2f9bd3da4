// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package datadogexporter

import (
	"strings"

	"github.com/z5labs/ddexport/internal/ddid"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Span is a single span in the agent's v0.4 intake format.
type Span struct {
	Service  string             `msgpack:"service"`
	Name     string             `msgpack:"name"`
	Resource string             `msgpack:"resource"`
	TraceID  uint64             `msgpack:"trace_id"`
	SpanID   uint64             `msgpack:"span_id"`
	ParentID uint64             `msgpack:"parent_id"`
	Start    int64              `msgpack:"start"`
	Duration int64              `msgpack:"duration"`
	Error    int32              `msgpack:"error"`
	Meta     map[string]string  `msgpack:"meta,omitempty"`
	Metrics  map[string]float64 `msgpack:"metrics,omitempty"`
	Type     string             `msgpack:"type,omitempty"`
}

const (
	keySamplingPriority = "_sampling_priority_v1"
	keyTopLevel         = "_top_level"
	keyTraceIDHigh      = "_dd.p.tid"
)

func (e *Exporter) convert(s sdktrace.ReadOnlySpan) *Span {
	sc := s.SpanContext()
	span := &Span{
		Service:  e.serviceFor(s),
		Name:     e.nameMapper(s),
		Resource: e.resourceMapper(s),
		TraceID:  ddid.TraceID(sc.TraceID()),
		SpanID:   ddid.SpanID(sc.SpanID()),
		Start:    s.StartTime().UnixNano(),
		Duration: s.EndTime().Sub(s.StartTime()).Nanoseconds(),
		Meta:     make(map[string]string, len(s.Attributes())+2),
		Metrics:  make(map[string]float64),
		Type:     spanKindToType(s.SpanKind()),
	}

	parent := s.Parent()
	if parent.IsValid() {
		span.ParentID = ddid.SpanID(parent.SpanID())
	}
	if !parent.IsValid() || parent.IsRemote() {
		span.Metrics[keyTopLevel] = 1
		span.Metrics[keySamplingPriority] = samplingPriority(sc)
	}

	for _, kv := range s.Attributes() {
		switch kv.Value.Type() {
		case attribute.INT64:
			span.Metrics[string(kv.Key)] = float64(kv.Value.AsInt64())
		case attribute.FLOAT64:
			span.Metrics[string(kv.Key)] = kv.Value.AsFloat64()
		default:
			span.Meta[string(kv.Key)] = kv.Value.Emit()
		}
	}
	if _, ok := span.Meta["env"]; !ok {
		if env, ok := s.Resource().Set().Value(semconv.DeploymentEnvironmentKey); ok {
			span.Meta["env"] = env.Emit()
		}
	}
	if high := ddid.TraceIDHigh(sc.TraceID()); high != "" {
		span.Meta[keyTraceIDHigh] = high
	}
	if ts := sc.TraceState().String(); ts != "" {
		span.Meta["trace_state"] = ts
	}
	scope := s.InstrumentationScope()
	if scope.Name != "" {
		span.Meta["otel.library.name"] = scope.Name
	}
	if scope.Version != "" {
		span.Meta["otel.library.version"] = scope.Version
	}
	span.Meta["span.kind"] = s.SpanKind().String()

	statusToError(s, span)
	return span
}

func (e *Exporter) serviceFor(s sdktrace.ReadOnlySpan) string {
	if e.service != "" {
		return e.service
	}
	if v, ok := s.Resource().Set().Value(semconv.ServiceNameKey); ok && v.AsString() != "" {
		return v.AsString()
	}
	return DefaultServiceName
}

func samplingPriority(sc trace.SpanContext) float64 {
	if sc.IsSampled() {
		return 1
	}
	return 0
}

func spanKindToType(kind trace.SpanKind) string {
	switch kind {
	case trace.SpanKindServer:
		return "web"
	case trace.SpanKindClient:
		return "http"
	default:
		return "custom"
	}
}

func statusToError(s sdktrace.ReadOnlySpan, span *Span) {
	status := s.Status()
	if status.Code != codes.Error {
		return
	}
	span.Error = 1
	if status.Description != "" {
		span.Meta["error.msg"] = status.Description
	}
	for _, ev := range s.Events() {
		if !strings.EqualFold(ev.Name, semconv.ExceptionEventName) {
			continue
		}
		for _, kv := range ev.Attributes {
			switch kv.Key {
			case semconv.ExceptionMessageKey:
				span.Meta["error.msg"] = kv.Value.Emit()
			case semconv.ExceptionTypeKey:
				span.Meta["error.type"] = kv.Value.Emit()
			case semconv.ExceptionStacktraceKey:
				span.Meta["error.stack"] = kv.Value.Emit()
			}
		}
	}
}
