// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	t.Run("will update the error ref value", func(t *testing.T) {
		t.Run("if a panic is successfully recovered from and the ref is set to nil", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				panic("hello world")
			}

			err := f()

			var perr PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.NotEmpty(t, perr.Error()) {
				return
			}
			if !assert.Equal(t, "hello world", perr.Value) {
				return
			}
			if !assert.Nil(t, perr.Unwrap()) {
				return
			}
		})

		t.Run("if a panic is successfully recovered from and the ref is set to a non-nil value", func(t *testing.T) {
			funcErr := errors.New("error value")
			panicErr := errors.New("panic error")
			f := func() (err error) {
				defer Recover(&err)
				err = funcErr
				panic(panicErr)
			}

			err := f()

			if !assert.ErrorIs(t, err, funcErr) {
				return
			}

			var perr PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.ErrorIs(t, perr, panicErr) {
				return
			}
		})
	})

	t.Run("will not update the error ref value", func(t *testing.T) {
		t.Run("if no panic is occurred", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				return nil
			}

			err := f()
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

type closeFunc func() error

func (f closeFunc) Close() error {
	return f()
}

type readCloser struct {
	io.Reader
	closeFunc
}

func TestClose(t *testing.T) {
	t.Run("will return a CloseError", func(t *testing.T) {
		t.Run("if the io.Closer fails to close", func(t *testing.T) {
			closeErr := errors.New("failed to close")
			f := func() (err error) {
				defer Close(&err, closeFunc(func() error {
					return closeErr
				}))
				return nil
			}

			err := f()

			var cerr CloseError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, cerr, closeErr) {
				return
			}
		})

		t.Run("joined with the existing error", func(t *testing.T) {
			funcErr := errors.New("func error")
			closeErr := errors.New("failed to close")
			f := func() (err error) {
				defer Close(&err, closeFunc(func() error {
					return closeErr
				}))
				return funcErr
			}

			err := f()
			if !assert.ErrorIs(t, err, funcErr) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
		})
	})

	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if the value does not implement io.Closer", func(t *testing.T) {
			f := func() (err error) {
				defer Close(&err, strings.NewReader("hello"))
				return nil
			}

			err := f()
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

func TestDrainAndClose(t *testing.T) {
	t.Run("will consume the remaining body before closing", func(t *testing.T) {
		r := strings.NewReader("some leftover body")
		var closed bool
		rc := readCloser{
			Reader: r,
			closeFunc: func() error {
				closed = true
				return nil
			},
		}

		var err error
		DrainAndClose(&err, rc)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.True(t, closed) {
			return
		}
		if !assert.Equal(t, 0, r.Len()) {
			return
		}
	})
}
