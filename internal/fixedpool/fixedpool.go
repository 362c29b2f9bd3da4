// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs a fixed set of long lived tasks side by side.
package fixedpool

import (
	"context"
	"errors"

	"github.com/z5labs/ddexport/internal/try"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work run by Wait.
type Task func(context.Context) error

// Wait runs every task in its own goroutine and blocks until all of
// them have returned. The first task to fail or panic cancels the
// context shared by the others. Every failure is returned, joined.
func Wait(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)

	errs := make([]error, len(tasks))
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() (err error) {
			defer func() {
				errs[i] = err
			}()
			defer try.Recover(&err)

			return task(gctx)
		})
	}

	// every error is collected in errs so the first one is not needed
	_ = g.Wait()
	return errors.Join(errs...)
}
