// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package slogfield

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJsonHandler(t *testing.T) {
	testCases := []struct {
		Name     string
		Attr     slog.Attr
		Key      string
		Expected any
	}{
		{Name: "any", Attr: Any("value", true), Key: "value", Expected: true},
		{Name: "bool", Attr: Bool("value", false), Key: "value", Expected: false},
		{Name: "duration", Attr: Duration("value", 5*time.Second), Key: "value", Expected: float64(5 * time.Second)},
		{Name: "error", Attr: Error(errors.New("boom")), Key: "error", Expected: "boom"},
		{Name: "string", Attr: String("value", "hello"), Key: "value", Expected: "hello"},
		{Name: "strings", Attr: Strings("value", []string{"a", "b"}), Key: "value", Expected: []any{"a", "b"}},
		{Name: "int", Attr: Int("value", 7), Key: "value", Expected: float64(7)},
		{Name: "uint32", Attr: Uint32("value", 9), Key: "value", Expected: float64(9)},
		{Name: "backend", Attr: Backend("datadog"), Key: "tracing_backend", Expected: "datadog"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))
			logger.Info("test", testCase.Attr)

			var record map[string]any
			err := json.Unmarshal(buf.Bytes(), &record)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, testCase.Expected, record[testCase.Key]) {
				return
			}
		})
	}
}
