// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mtreilly/arc-bookvault/internal/server"
)

func newWebCmd(app *App) *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only web UI and JSON API",
		Long: `Serve a browser page and a read-only JSON API for the catalog.

Bind address and port default to serve.bind and serve.port from the config.
Stop with Ctrl+C; in-flight requests are allowed to finish.

Endpoints: /v1/books, /v1/books/:id, /v1/search, /v1/suggestions,
/v1/history, /v1/stats, /v1/quick, /v1/duplicates, /v1/export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			host, p := cfg.Serve.Bind, cfg.Serve.Port
			if cmd.Flags().Changed("bind") {
				host = bind
			}
			if cmd.Flags().Changed("port") {
				p = port
			}
			addr := net.JoinHostPort(host, strconv.Itoa(p))

			srv := server.New(app.lib, app.engine,
				server.WithLogger(app.Log),
				server.WithClock(app.now),
				server.WithSearchDefaults(app.searchOptions(cmd, false, false)),
				server.WithRateLimit(cfg.Serve.RateLimit, cfg.Serve.Burst),
			)

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting arc-bookvault web server on http://%s\n", addr)
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			return srv.Serve(ctx, addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to serve on (default: serve.port)")
	cmd.Flags().StringVarP(&bind, "bind", "b", "127.0.0.1", "Address to bind to (default: serve.bind)")

	return cmd
}
