// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

func ExampleNew() {
	var buf bytes.Buffer
	logger := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}), Service("router"))

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{15: 0x0a},
		SpanID:  trace.SpanID{7: 0x0b},
	})
	logger.InfoContext(trace.ContextWithSpanContext(context.Background(), spanCtx), "hello world")

	var record struct {
		DD struct {
			TraceID string `json:"trace_id"`
			SpanID  string `json:"span_id"`
		} `json:"dd"`
	}
	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(record.DD.TraceID)
	fmt.Print(record.DD.SpanID)
	// Output: 10
	// 11
}

func ExampleHandler_WithGroup() {
	var buf bytes.Buffer
	var h slog.Handler = NewHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))
	h = h.WithGroup("n")

	logger := slog.New(h)
	logger.Info("hello world", slog.Int("one", 1))

	var record struct {
		Message string `json:"msg"`
		N       struct {
			One int `json:"one"`
		} `json:"n"`
	}
	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(record.Message)
	fmt.Print(record.N.One)
	// Output: hello world
	// 1
}
