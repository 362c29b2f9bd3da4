// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ddid converts OpenTelemetry trace and span ids into the
// 64-bit integer ids used by the Datadog agent and log correlation.
package ddid

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"go.opentelemetry.io/otel/trace"
)

// TraceID returns the lower 64 bits of id.
func TraceID(id trace.TraceID) uint64 {
	return binary.BigEndian.Uint64(id[8:])
}

// TraceIDHigh returns the upper 64 bits of id as 16 lowercase hex
// characters, or "" when they are all zero.
func TraceIDHigh(id trace.TraceID) string {
	if binary.BigEndian.Uint64(id[:8]) == 0 {
		return ""
	}
	return hex.EncodeToString(id[:8])
}

// SpanID returns id as an integer.
func SpanID(id trace.SpanID) uint64 {
	return binary.BigEndian.Uint64(id[:])
}

// FormatTraceID renders the lower 64 bits of id in base 10.
func FormatTraceID(id trace.TraceID) string {
	return strconv.FormatUint(TraceID(id), 10)
}

// FormatSpanID renders id in base 10.
func FormatSpanID(id trace.SpanID) string {
	return strconv.FormatUint(SpanID(id), 10)
}
