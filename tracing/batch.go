// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/z5labs/ddexport/pkg/slogfield"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Defaults applied by the OpenTelemetry SDK batch span processor.
const (
	DefaultMaxQueueSize       = sdktrace.DefaultMaxQueueSize
	DefaultScheduledDelay     = sdktrace.DefaultScheduleDelay * time.Millisecond
	DefaultMaxExportTimeout   = sdktrace.DefaultExportTimeout * time.Millisecond
	DefaultMaxExportBatchSize = sdktrace.DefaultMaxExportBatchSize
)

// BatchProcessorConfig tunes the batch span processor wrapped around a
// backend's exporter. Unset fields keep the SDK defaults.
type BatchProcessorConfig struct {
	MaxExportBatchSize *uint `config:"max_export_batch_size"`
	MaxExportTimeoutMs *uint `config:"max_export_timeout_ms"`
	MaxQueueSize       *uint `config:"max_queue_size"`
	ScheduledDelayMs   *uint `config:"scheduled_delay_ms"`
}

// Options converts the config into batch span processor options.
func (c BatchProcessorConfig) Options() []sdktrace.BatchSpanProcessorOption {
	var opts []sdktrace.BatchSpanProcessorOption
	if c.MaxExportBatchSize != nil {
		opts = append(opts, sdktrace.WithMaxExportBatchSize(int(*c.MaxExportBatchSize)))
	}
	if c.MaxExportTimeoutMs != nil {
		opts = append(opts, sdktrace.WithExportTimeout(msDuration(*c.MaxExportTimeoutMs)))
	}
	if c.MaxQueueSize != nil {
		opts = append(opts, sdktrace.WithMaxQueueSize(int(*c.MaxQueueSize)))
	}
	if c.ScheduledDelayMs != nil {
		opts = append(opts, sdktrace.WithBatchTimeout(msDuration(*c.ScheduledDelayMs)))
	}
	return opts
}

func (c BatchProcessorConfig) maxExportBatchSize() int {
	if c.MaxExportBatchSize == nil {
		return DefaultMaxExportBatchSize
	}
	return int(*c.MaxExportBatchSize)
}

func (c BatchProcessorConfig) maxExportTimeout() time.Duration {
	if c.MaxExportTimeoutMs == nil {
		return DefaultMaxExportTimeout
	}
	return msDuration(*c.MaxExportTimeoutMs)
}

func (c BatchProcessorConfig) maxQueueSize() int {
	if c.MaxQueueSize == nil {
		return DefaultMaxQueueSize
	}
	return int(*c.MaxQueueSize)
}

func (c BatchProcessorConfig) scheduledDelay() time.Duration {
	if c.ScheduledDelayMs == nil {
		return DefaultScheduledDelay
	}
	return msDuration(*c.ScheduledDelayMs)
}

// String describes the effective settings, defaults included.
func (c BatchProcessorConfig) String() string {
	return fmt.Sprintf(
		"BatchProcessorConfig { max_export_batch_size=%d, max_export_timeout=%s, max_queue_size=%d, scheduled_delay=%s }",
		c.maxExportBatchSize(),
		c.maxExportTimeout(),
		c.maxQueueSize(),
		c.scheduledDelay(),
	)
}

// LogValue implements the [slog.LogValuer] interface.
func (c BatchProcessorConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slogfield.Int("max_export_batch_size", c.maxExportBatchSize()),
		slogfield.Duration("max_export_timeout", c.maxExportTimeout()),
		slogfield.Int("max_queue_size", c.maxQueueSize()),
		slogfield.Duration("scheduled_delay", c.scheduledDelay()),
	)
}

func msDuration(ms uint) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
