// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerProviderBuilder is implemented by configs which know how to
// build the process wide TracerProvider.
type TracerProviderBuilder interface {
	TracerProvider(context.Context) (*sdktrace.TracerProvider, error)
}

// WithTracing is a Builder middleware which installs the config's
// TracerProvider globally before building the App. The provider is
// shut down, flushing any buffered spans, once the App stops running.
func WithTracing[T TracerProviderBuilder](builder Builder[T]) Builder[T] {
	return BuilderFunc[T](func(ctx context.Context, cfg T) (App, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		tp, err := cfg.TracerProvider(ctx)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

		base, err := builder.Build(ctx, cfg)
		if err != nil {
			shutdownErr := tp.Shutdown(context.WithoutCancel(ctx))
			return nil, errors.Join(err, shutdownErr)
		}

		return WithLifecycleHooks(base, Lifecycle{
			PostRun: LifecycleHookFunc(tp.Shutdown),
		}), nil
	})
}
