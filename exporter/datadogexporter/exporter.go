// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package datadogexporter exports OpenTelemetry spans to a Datadog
// trace agent over the agent's v0.4 msgpack intake.
package datadogexporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/z5labs/ddexport/internal/httpclient"
	"github.com/z5labs/ddexport/internal/try"
	"github.com/z5labs/ddexport/pkg/noop"
	"github.com/z5labs/ddexport/pkg/slogfield"

	"github.com/vmihailenco/msgpack/v4"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// DefaultAgentEndpoint is where a locally running agent listens.
	DefaultAgentEndpoint = "http://localhost:8126"

	// DefaultServiceName is reported when neither the exporter nor the
	// span's resource names a service.
	DefaultServiceName = "unknown_service"

	// TracerVersion is sent to the agent in the Datadog-Meta-Tracer-Version header.
	TracerVersion = "0.1.0"

	tracesPath = "/v0.4/traces"
)

// Mapper derives a Datadog field from an exported span.
type Mapper func(sdktrace.ReadOnlySpan) string

type options struct {
	endpoint       string
	service        string
	nameMapper     Mapper
	resourceMapper Mapper
	client         *http.Client
	logHandler     slog.Handler
}

// Option configures an Exporter.
type Option func(*options)

// AgentEndpoint sets the base URL of the trace agent.
func AgentEndpoint(s string) Option {
	return func(o *options) {
		o.endpoint = s
	}
}

// ServiceName sets the service reported on every span.
func ServiceName(name string) Option {
	return func(o *options) {
		o.service = name
	}
}

// WithNameMapping sets how span names become Datadog operation names.
func WithNameMapping(m Mapper) Option {
	return func(o *options) {
		o.nameMapper = m
	}
}

// WithResourceMapping sets how the Datadog resource is derived for a span.
func WithResourceMapping(m Mapper) Option {
	return func(o *options) {
		o.resourceMapper = m
	}
}

// HTTPClient sets the client used to reach the agent.
func HTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// LogHandler sets where the exporter and its default HTTP client log.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// InvalidOptionError is returned by New when an option has an unusable value.
type InvalidOptionError struct {
	Option string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Option, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *InvalidOptionError) Unwrap() error {
	return e.Cause
}

var errNilMapper = errors.New("mapper must not be nil")

// AgentResponseError is returned when the agent rejects a payload.
type AgentResponseError struct {
	StatusCode int
	Body       string
}

// Error implements the [builtin.error] interface.
func (e *AgentResponseError) Error() string {
	return fmt.Sprintf("trace agent responded with status %d: %s", e.StatusCode, e.Body)
}

// Exporter implements the sdktrace.SpanExporter interface.
type Exporter struct {
	log            *slog.Logger
	client         *http.Client
	tracesURL      string
	service        string
	nameMapper     Mapper
	resourceMapper Mapper

	mu       sync.RWMutex
	shutdown bool
}

// New validates the options and returns an Exporter.
func New(opts ...Option) (*Exporter, error) {
	o := &options{
		endpoint:       DefaultAgentEndpoint,
		nameMapper:     spanName,
		resourceMapper: spanName,
		logHandler:     noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.nameMapper == nil {
		return nil, &InvalidOptionError{Option: "name mapping", Cause: errNilMapper}
	}
	if o.resourceMapper == nil {
		return nil, &InvalidOptionError{Option: "resource mapping", Cause: errNilMapper}
	}

	u, err := url.Parse(strings.TrimRight(o.endpoint, "/"))
	if err != nil {
		return nil, &InvalidOptionError{Option: "agent endpoint", Cause: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &InvalidOptionError{
			Option: "agent endpoint",
			Cause:  fmt.Errorf("must be an absolute url: %q", o.endpoint),
		}
	}

	if o.client == nil {
		o.client = httpclient.New(
			httpclient.Name("datadog-agent"),
			httpclient.LogHandler(o.logHandler),
			httpclient.Timeout(10*time.Second),
			httpclient.Retry(2, 100*time.Millisecond, time.Second),
			httpclient.TripAfter(5),
			httpclient.OpenStateTimeout(30*time.Second),
		)
	}

	e := &Exporter{
		log:            slog.New(o.logHandler),
		client:         o.client,
		tracesURL:      u.JoinPath(tracesPath).String(),
		service:        o.service,
		nameMapper:     o.nameMapper,
		resourceMapper: o.resourceMapper,
	}
	return e, nil
}

func spanName(s sdktrace.ReadOnlySpan) string {
	return s.Name()
}

// ExportSpans implements the sdktrace.SpanExporter interface.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) (err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.shutdown || len(spans) == 0 {
		return nil
	}

	traces := e.group(spans)
	b, err := msgpack.Marshal(traces)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tracesURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/msgpack")
	req.Header.Set("Datadog-Meta-Lang", "go")
	req.Header.Set("Datadog-Meta-Tracer-Version", TracerVersion)
	req.Header.Set("X-Datadog-Trace-Count", strconv.Itoa(len(traces)))

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer try.DrainAndClose(&err, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &AgentResponseError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	e.log.DebugContext(
		ctx,
		"exported spans",
		slogfield.Int("spans", len(spans)),
		slogfield.Int("traces", len(traces)),
	)
	return nil
}

// group converts spans and groups them by trace, keeping the order in
// which each trace was first seen.
func (e *Exporter) group(spans []sdktrace.ReadOnlySpan) [][]*Span {
	index := make(map[uint64]int)
	var traces [][]*Span
	for _, s := range spans {
		span := e.convert(s)
		i, ok := index[span.TraceID]
		if !ok {
			i = len(traces)
			index[span.TraceID] = i
			traces = append(traces, nil)
		}
		traces[i] = append(traces[i], span)
	}
	return traces
}

// Shutdown implements the sdktrace.SpanExporter interface.
// Spans exported after Shutdown are dropped.
func (e *Exporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return nil
	}
	e.shutdown = true
	e.client.CloseIdleConnections()
	return ctx.Err()
}
