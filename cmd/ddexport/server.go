// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/ddexport/internal/fixedpool"
	"github.com/z5labs/ddexport/pkg/slogfield"
)

type server struct {
	log *slog.Logger
	ls  net.Listener
	srv *http.Server
}

func newServer(log *slog.Logger, ls net.Listener, h http.Handler) *server {
	return &server{
		log: log,
		ls:  ls,
		srv: &http.Server{
			Handler:           h,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled and then shuts the server down gracefully.
func (s *server) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "serving demo router", slogfield.String("addr", s.ls.Addr().String()))

	err := fixedpool.Wait(
		ctx,
		func(ctx context.Context) error {
			return s.srv.Serve(s.ls)
		},
		func(ctx context.Context) error {
			<-ctx.Done()
			return s.srv.Shutdown(context.WithoutCancel(ctx))
		},
	)

	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
