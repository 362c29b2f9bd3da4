// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ddid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceID(t *testing.T) {
	t.Run("will use the lower 64 bits", func(t *testing.T) {
		id := trace.TraceID{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 1, 0}
		if !assert.Equal(t, uint64(256), TraceID(id)) {
			return
		}
		if !assert.Equal(t, "256", FormatTraceID(id)) {
			return
		}
		if !assert.Equal(t, "0000000000000001", TraceIDHigh(id)) {
			return
		}
	})

	t.Run("will report no high bits for 64-bit trace ids", func(t *testing.T) {
		id := trace.TraceID{8: 0xff}
		if !assert.Empty(t, TraceIDHigh(id)) {
			return
		}
	})
}

func TestSpanID(t *testing.T) {
	t.Run("will decode big endian", func(t *testing.T) {
		id := trace.SpanID{0, 0, 0, 0, 0, 0, 0x01, 0x02}
		if !assert.Equal(t, uint64(258), SpanID(id)) {
			return
		}
		if !assert.Equal(t, "258", FormatSpanID(id)) {
			return
		}
	})
}
