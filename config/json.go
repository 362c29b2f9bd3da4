// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/ddexport/internal/try"
)

// Json is a Source backed by a single JSON object.
type Json struct {
	r io.Reader
}

// FromJson reads one JSON object from r. Numbers are kept as
// json.Number so integer fields survive decoding.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// InvalidJsonError is returned when the input is not a JSON object.
type InvalidJsonError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (src Json) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	dec := json.NewDecoder(src.r)
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return InvalidJsonError{Cause: err}
	}
	if dec.More() {
		return InvalidJsonError{Cause: errMultipleDocuments}
	}
	return Map(m).Apply(store)
}
