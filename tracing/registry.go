// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"context"
	"errors"

	"github.com/z5labs/ddexport/pkg/slogfield"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ResourceDetector is implemented by Configurators which know how to
// describe the environment they export from.
type ResourceDetector interface {
	Detectors() []resource.Detector
}

type backend struct {
	name string
	cfg  Configurator
}

// Registry composes the span processors of named backends into one
// TracerProvider.
type Registry struct {
	backends []backend
}

// Register adds a backend. Backends are applied in registration order.
func (r *Registry) Register(name string, cfg Configurator) {
	r.backends = append(r.backends, backend{name: name, cfg: cfg})
}

// Build applies every registered backend and installs the resulting
// span processors on a new TracerProvider.
//
// A backend which fails to configure is logged and skipped. Its error
// is joined into the returned error while the provider still carries
// every backend which succeeded. If backends failed and none was
// installed, no provider is returned. Callers own the returned
// provider and must shut it down.
func (r *Registry) Build(ctx context.Context, t Trace) (*sdktrace.TracerProvider, error) {
	log := LoggerFrom(ctx)

	var detectors []resource.Detector
	for _, b := range r.backends {
		if rd, ok := b.cfg.(ResourceDetector); ok {
			detectors = append(detectors, rd.Detectors()...)
		}
	}

	res, err := t.Resource(ctx, detectors...)
	switch {
	case errors.Is(err, resource.ErrPartialResource):
		log.WarnContext(ctx, "using incomplete tracing resource", slogfield.Error(err))
	case err != nil:
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(t.SamplerFor()),
		sdktrace.WithRawSpanLimits(t.SpanLimits()),
	}

	var (
		errs      []error
		installed int
	)
	for _, b := range r.backends {
		sp, err := b.cfg.Apply(ctx, t)
		if err != nil {
			log.ErrorContext(ctx, "failed to configure tracing backend", slogfield.Backend(b.name), slogfield.Error(err))
			errs = append(errs, err)
			continue
		}
		if sp == nil {
			log.DebugContext(ctx, "tracing backend disabled", slogfield.Backend(b.name))
			continue
		}
		log.InfoContext(ctx, "tracing backend installed", slogfield.Backend(b.name))
		opts = append(opts, sdktrace.WithSpanProcessor(sp))
		installed++
	}
	if len(errs) > 0 && installed == 0 {
		return nil, errors.Join(errs...)
	}

	return sdktrace.NewTracerProvider(opts...), errors.Join(errs...)
}
