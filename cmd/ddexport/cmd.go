// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/z5labs/ddexport/config"
	"github.com/z5labs/ddexport/internal/app"
	"github.com/z5labs/ddexport/tracing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

func newCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "ddexport",
		Short:        "Serve a traced GraphQL router and export its spans to Datadog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			srcs := []config.Source{
				config.Map{
					"http": map[string]any{"addr": ":8080"},
				},
			}
			if path != "" {
				srcs = append(srcs, fileSource(path))
			}
			srcs = append(srcs, config.FromViper(v))

			builder := withLogging(cmd.ErrOrStderr(), app.WithTracing[Config](app.BuilderFunc[Config](buildApp)))
			return app.Run[Config](cmd.Context(), builder, srcs...)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "path to a YAML or JSON config file")
	flags.String("service-name", "", "service name reported on every span")
	flags.String("log-level", "", "one of debug, info, warn or error")
	flags.String("http-addr", "", "address the demo router listens on")

	v.BindPFlag("trace.service_name", flags.Lookup("service-name"))
	v.BindPFlag("logging.level", flags.Lookup("log-level"))
	v.BindPFlag("http.addr", flags.Lookup("http-addr"))

	// the standard Datadog tracer environment variables
	v.BindEnv("trace.service_name", "DD_SERVICE")
	v.BindEnv("datadog.endpoint", "DD_TRACE_AGENT_URL")

	return cmd
}

// fileSource renders the file as a text template, with access to the
// environment through the env func, before decoding it.
func fileSource(path string) config.Source {
	f := config.NewFileReader(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	r := config.RenderTextTemplate(f, config.Env(os.LookupEnv))

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return config.FromJson(r)
	}
	return config.FromYaml(r)
}

func buildApp(ctx context.Context, cfg Config) (app.App, error) {
	log := tracing.LoggerFrom(ctx)

	ls, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return nil, err
	}

	srv := newServer(log, ls, newRouter(log, otel.GetTracerProvider()))
	return app.Recover(app.WithSignalNotifications(srv, os.Interrupt)), nil
}
