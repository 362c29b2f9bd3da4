// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestTrace_Resource(t *testing.T) {
	t.Run("will use the default service name", func(t *testing.T) {
		t.Run("if no service name is configured", func(t *testing.T) {
			res, err := Trace{}.Resource(context.Background())
			if !assert.Nil(t, err) {
				return
			}

			v, ok := res.Set().Value(semconv.ServiceNameKey)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, DefaultServiceName, v.AsString()) {
				return
			}
		})
	})

	t.Run("will include the configured attributes", func(t *testing.T) {
		t.Run("if attributes are configured", func(t *testing.T) {
			tc := Trace{
				ServiceName: "accounts",
				Attributes: map[string]string{
					"deployment.environment": "staging",
				},
			}

			res, err := tc.Resource(context.Background())
			if !assert.Nil(t, err) {
				return
			}

			v, ok := res.Set().Value(semconv.ServiceNameKey)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, "accounts", v.AsString()) {
				return
			}

			v, ok = res.Set().Value(attribute.Key("deployment.environment"))
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, "staging", v.AsString()) {
				return
			}
		})
	})
}

func TestTrace_SamplerFor(t *testing.T) {
	ratio := func(f float64) *float64 { return &f }
	no := false

	testCases := []struct {
		Name        string
		Trace       Trace
		Description string
	}{
		{
			Name:        "if no ratio is configured",
			Trace:       Trace{ParentBased: &no},
			Description: "AlwaysOnSampler",
		},
		{
			Name:        "if the ratio is zero",
			Trace:       Trace{Sampler: ratio(0), ParentBased: &no},
			Description: "AlwaysOffSampler",
		},
		{
			Name:        "if the ratio is one or more",
			Trace:       Trace{Sampler: ratio(1.5), ParentBased: &no},
			Description: "AlwaysOnSampler",
		},
		{
			Name:        "if the ratio is a fraction",
			Trace:       Trace{Sampler: ratio(0.5), ParentBased: &no},
			Description: "TraceIDRatioBased{0.5}",
		},
	}

	t.Run("will pick the matching sampler", func(t *testing.T) {
		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				s := testCase.Trace.SamplerFor()
				if !assert.Equal(t, testCase.Description, s.Description()) {
					return
				}
			})
		}
	})

	t.Run("will respect the parent decision", func(t *testing.T) {
		t.Run("if parent based sampling is not disabled", func(t *testing.T) {
			s := Trace{}.SamplerFor()
			if !assert.Contains(t, s.Description(), "ParentBased{root:AlwaysOnSampler") {
				return
			}
		})
	})
}

func TestTrace_SpanLimits(t *testing.T) {
	t.Run("will override the SDK defaults", func(t *testing.T) {
		t.Run("if limits are configured", func(t *testing.T) {
			n := 3
			limits := Trace{MaxAttributesPerSpan: &n}.SpanLimits()
			if !assert.Equal(t, 3, limits.AttributeCountLimit) {
				return
			}
			if !assert.Equal(t, 128, limits.EventCountLimit) {
				return
			}
		})
	})
}
