// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which rewrites sensitive
// attributes before they are handed to the underlying handler.
package maskslog

import (
	"context"
	"log/slog"
	"net/url"
)

// Masker rewrites a single attribute.
type Masker func(slog.Attr) slog.Attr

// Option configures a Handler.
type Option func(*Handler)

// Attr registers a Masker for every attribute with the given key.
func Attr(key string, m Masker) Option {
	return func(h *Handler) {
		h.maskers[key] = m
	}
}

// Anonymous replaces the attribute value with "****" no matter
// its kind.
func Anonymous(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// URLCredentials redacts the password of a URL valued attribute.
// Attributes which do not parse as a URL with user info are
// returned unchanged.
func URLCredentials(a slog.Attr) slog.Attr {
	u, err := url.Parse(a.Value.Resolve().String())
	if err != nil || u.User == nil {
		return a
	}
	return slog.String(a.Key, u.Redacted())
}

// Handler is an slog.Handler.
type Handler struct {
	slog    slog.Handler
	maskers map[string]Masker
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	handler := &Handler{
		slog:    h,
		maskers: make(map[string]Masker),
	}
	for _, opt := range opts {
		opt(handler)
	}
	return handler
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.maskers) == 0 {
		return h.slog.Handle(ctx, record)
	}

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{slog: h.slog.WithAttrs(masked), maskers: h.maskers}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{slog: h.slog.WithGroup(name), maskers: h.maskers}
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Group(a.Key, masked...)
	}

	m, ok := h.maskers[a.Key]
	if !ok {
		return a
	}
	return m(a)
}
