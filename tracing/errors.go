// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tracing

import "fmt"

// ConfigValidationError is returned when a tracing backend's
// configuration contains a value which cannot be used, such as an
// agent endpoint that does not parse as a URL.
type ConfigValidationError struct {
	Field string
	Value string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *ConfigValidationError) Unwrap() error {
	return e.Cause
}

// ExporterInitError is returned when a backend fails to construct its
// span exporter. It only aborts the backend it names.
type ExporterInitError struct {
	Backend string
	Cause   error
}

// Error implements the [builtin.error] interface.
func (e *ExporterInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s exporter: %s", e.Backend, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *ExporterInitError) Unwrap() error {
	return e.Cause
}
