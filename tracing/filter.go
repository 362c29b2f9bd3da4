// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// PrivateAttributePrefix marks span attributes which are only meant
// for in-process consumers and are never exported.
const PrivateAttributePrefix = "apollo_private."

// Filtered wraps a span processor so that ended spans are handed to it
// without any private attributes.
func Filtered(sp sdktrace.SpanProcessor) sdktrace.SpanProcessor {
	return filteringProcessor{SpanProcessor: sp}
}

type filteringProcessor struct {
	sdktrace.SpanProcessor
}

// OnEnd implements the sdktrace.SpanProcessor interface.
func (p filteringProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := s.Attributes()
	kept := make([]attribute.KeyValue, 0, len(attrs))
	for _, kv := range attrs {
		if strings.HasPrefix(string(kv.Key), PrivateAttributePrefix) {
			continue
		}
		kept = append(kept, kv)
	}
	if len(kept) == len(attrs) {
		p.SpanProcessor.OnEnd(s)
		return
	}
	p.SpanProcessor.OnEnd(filteredSpan{ReadOnlySpan: s, attrs: kept})
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s filteredSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
