// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/ddexport/internal/try"

	"gopkg.in/yaml.v3"
)

// Yaml is a Source backed by a single YAML document.
type Yaml struct {
	r io.Reader
}

// FromYaml reads one YAML document from r. An empty document applies
// nothing and r is closed once read, if it is an io.Closer.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

var errMultipleDocuments = errors.New("expected a single document")

// InvalidYamlError is returned when the document can not be decoded
// into a mapping.
type InvalidYamlError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (src Yaml) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	dec := yaml.NewDecoder(src.r)

	var m map[string]any
	err = dec.Decode(&m)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return InvalidYamlError{Cause: err}
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return InvalidYamlError{Cause: errMultipleDocuments}
	}
	return Map(m).Apply(store)
}
