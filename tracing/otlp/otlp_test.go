// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"context"
	"testing"

	"github.com/z5labs/ddexport/tracing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Apply(t *testing.T) {
	t.Run("will return an ExporterInitError", func(t *testing.T) {
		t.Run("if the target is not set", func(t *testing.T) {
			_, err := Config{}.Apply(context.Background(), tracing.Trace{})

			var ierr *tracing.ExporterInitError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			if !assert.Equal(t, BackendName, ierr.Backend) {
				return
			}

			var cerr *tracing.ConfigValidationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, "target", cerr.Field) {
				return
			}
		})
	})

	t.Run("will not wait for the collector", func(t *testing.T) {
		t.Run("if the target is set", func(t *testing.T) {
			sp, err := Config{Target: "localhost:4317"}.Apply(context.Background(), tracing.Trace{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.NotNil(t, sp) {
				return
			}
			sp.Shutdown(context.Background())
		})
	})
}
