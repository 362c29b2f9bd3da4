// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/z5labs/ddexport/internal/app"
	"github.com/z5labs/ddexport/pkg/maskslog"
	"github.com/z5labs/ddexport/pkg/otelslog"
	"github.com/z5labs/ddexport/tracing"
	"github.com/z5labs/ddexport/tracing/datadog"
	"github.com/z5labs/ddexport/tracing/gcp"
	"github.com/z5labs/ddexport/tracing/otlp"
	"github.com/z5labs/ddexport/tracing/stdout"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config is the whole file config. A tracing backend is enabled by
// the presence of its section, even an empty one.
type Config struct {
	Logging struct {
		Level slog.Level `config:"level"`
	} `config:"logging"`

	HTTP struct {
		Addr string `config:"addr"`
	} `config:"http"`

	Trace tracing.Trace `config:"trace"`

	Datadog *datadog.Config `config:"datadog"`
	OTLP    *otlp.Config    `config:"otlp"`
	Stdout  *stdout.Config  `config:"stdout"`
	GCP     *gcp.Config     `config:"gcp"`
}

// TracerProvider implements the app.TracerProviderBuilder interface.
//
// Backends which fail to configure have already been logged by the
// registry and do not stop the others from exporting. When every
// configured backend fails, their errors are returned.
func (c Config) TracerProvider(ctx context.Context) (*sdktrace.TracerProvider, error) {
	var r tracing.Registry
	if c.Datadog != nil {
		r.Register(datadog.BackendName, c.Datadog)
	}
	if c.OTLP != nil {
		r.Register(otlp.BackendName, c.OTLP)
	}
	if c.Stdout != nil {
		r.Register(stdout.BackendName, c.Stdout)
	}
	if c.GCP != nil {
		r.Register(gcp.BackendName, c.GCP)
	}

	tp, err := r.Build(ctx, c.Trace)
	if tp == nil {
		return nil, err
	}
	return tp, nil
}

// withLogging builds the logger described by the config and hands it
// to the rest of the build through the context.
func withLogging(out io.Writer, next app.Builder[Config]) app.Builder[Config] {
	return app.BuilderFunc[Config](func(ctx context.Context, cfg Config) (app.App, error) {
		var h slog.Handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.Logging.Level})
		h = maskslog.NewHandler(
			h,
			maskslog.Attr("endpoint", maskslog.URLCredentials),
			maskslog.Attr("target", maskslog.URLCredentials),
		)
		logger := otelslog.New(h, otelslog.Service(cfg.Trace.Service()))

		return next.Build(tracing.WithLogger(ctx, logger), cfg)
	})
}
