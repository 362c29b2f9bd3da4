// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/z5labs/ddexport/pkg/slogfield"
	"github.com/z5labs/ddexport/tracing/datadog"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const graphqlRoute = "/graphql"

type graphqlRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

type router struct {
	log      *slog.Logger
	tracer   trace.Tracer
	subgraph string
}

// newRouter returns a GraphQL endpoint which records the span tree of
// a federated router: request, supergraph, query planning, execution
// and one fetch per subgraph.
func newRouter(log *slog.Logger, tp trace.TracerProvider) http.Handler {
	r := &router{
		log:      log,
		tracer:   tp.Tracer("github.com/z5labs/ddexport/cmd/ddexport"),
		subgraph: "accounts",
	}

	mux := http.NewServeMux()
	mux.Handle(graphqlRoute, otelhttp.WithRouteTag(graphqlRoute, http.HandlerFunc(r.serveGraphQL)))
	mux.HandleFunc("/health/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return otelhttp.NewHandler(
		mux,
		datadog.RequestSpanName,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithSpanNameFormatter(func(string, *http.Request) string {
			return datadog.RequestSpanName
		}),
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path == graphqlRoute
		}),
	)
}

func (rt *router) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := graphqlRequest{
		Query:         r.URL.Query().Get("query"),
		OperationName: r.URL.Query().Get("operationName"),
	}
	if r.Method == http.MethodPost {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			rt.log.WarnContext(ctx, "failed to decode graphql request", slogfield.Error(err))
			http.Error(w, "invalid graphql request", http.StatusBadRequest)
			return
		}
	}

	data := rt.supergraph(ctx, req)

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{"data": data})
	if err != nil {
		rt.log.ErrorContext(ctx, "failed to write graphql response", slogfield.Error(err))
	}
}

func (rt *router) supergraph(ctx context.Context, req graphqlRequest) map[string]any {
	op := attribute.String(string(datadog.OperationNameKey), req.OperationName)

	ctx, span := rt.tracer.Start(ctx, datadog.SupergraphSpanName, trace.WithAttributes(op))
	defer span.End()

	rt.log.InfoContext(ctx, "executing operation", slogfield.String("operation", req.OperationName))

	_, planning := rt.tracer.Start(ctx, datadog.QueryPlanningSpanName, trace.WithAttributes(op))
	planning.End()

	ctx, execution := rt.tracer.Start(ctx, datadog.ExecutionSpanName)
	defer execution.End()

	return map[string]any{
		rt.subgraph: rt.fetch(ctx, op),
	}
}

func (rt *router) fetch(ctx context.Context, op attribute.KeyValue) map[string]any {
	ctx, fetch := rt.tracer.Start(ctx, datadog.FetchSpanName)
	defer fetch.End()

	ctx, subgraph := rt.tracer.Start(
		ctx,
		datadog.SubgraphSpanName,
		trace.WithAttributes(op, attribute.String("apollo.subgraph.name", rt.subgraph)),
	)
	defer subgraph.End()

	_, request := rt.tracer.Start(
		ctx,
		datadog.SubgraphRequestSpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(op),
	)
	defer request.End()

	return map[string]any{}
}
