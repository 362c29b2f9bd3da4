// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads layered configuration sources into a single
// key value store and decodes it into strongly typed structs.
//
// Struct fields are matched using the `config` tag. Keys present in the
// sources but absent from the target struct are rejected, which keeps
// typos in tracing backend sections from being silently ignored.
package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/z5labs/ddexport/config/key"

	"github.com/mitchellh/mapstructure"
)

// Store represents a general key value structure.
type Store interface {
	Set(key.Keyer, any) error
}

// Source defines valid config sources as those who can
// serialize themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Manager holds the merged result of one or more Sources.
type Manager struct {
	store Map
}

// Read applies every Source, in order, to a fresh store.
// Subsequent sources override previous sources.
func Read(srcs ...Source) (*Manager, error) {
	store := make(Map)
	for _, src := range srcs {
		err := src.Apply(store)
		if err != nil {
			return nil, err
		}
	}
	return &Manager{store: store}, nil
}

// Apply implements the Source interface so a Manager can be layered
// underneath further sources.
func (m *Manager) Apply(store Store) error {
	return m.store.Apply(store)
}

// UnmarshalOption tweaks how a Manager decodes into a struct.
type UnmarshalOption func(*mapstructure.DecoderConfig)

// AllowUnknownKeys disables the strict unknown key check.
func AllowUnknownKeys() UnmarshalOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = false
	}
}

// Unmarshal decodes the merged config into v, which must be a pointer.
//
// If a field's decode hook fails (e.g. an encoding.TextUnmarshaler rejects
// its input) that error is returned as is, so callers can use errors.As
// to inspect it.
func (m *Manager) Unmarshal(v any, opts ...UnmarshalOption) error {
	var hookErr error
	dc := &mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           v,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: composeDecodeHooks(
			&hookErr,
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	}
	for _, opt := range opts {
		opt(dc)
	}

	dec, err := mapstructure.NewDecoder(dc)
	if err != nil {
		return err
	}
	err = dec.Decode(map[string]any(m.store))
	if err != nil && hookErr != nil {
		return hookErr
	}
	return err
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when attempting to unmarshal a config
// value to a struct field whose type does not match the config
// value type, up to, coercion.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(firstErr *error, hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			terr := TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
			if *firstErr == nil {
				*firstErr = terr
			}
			return nil, terr
		}
		return f.Interface(), nil
	}
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		if !reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u := result.Interface().(encoding.TextUnmarshaler)
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(reflect.ValueOf(data).String())
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
