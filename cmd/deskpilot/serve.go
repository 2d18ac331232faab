package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kweiss/deskpilot/internal/logging"
	"github.com/kweiss/deskpilot/internal/server"
	watch "github.com/kweiss/deskpilot/internal/signal"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serve the task execution API over HTTP.

Endpoints:
  POST /execute          run a task and return its result
  POST /execute_stream   run a task, streaming step events (SSE)
  POST /cancel/{id}      request cancellation of a running task
  GET  /status/{id}      execution record for a task
  GET  /producers        producer metadata
  GET  /metrics          aggregate run metrics
  GET  /health           liveness check

Dropping a file named cancel_<task-id> into <workspace>/.deskpilot/signals
also cancels a running task.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Bind address (overrides server.host/server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	watcher, err := watch.New(a.ws.Base(), logging.Component(a.log, "signal"), a.orch.Cancel)
	if err != nil {
		a.log.Warn().Err(err).Msg("signal watcher unavailable")
	} else {
		defer watcher.Close()
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr()
	}
	srv := server.New(a.orch, addr, logging.Component(a.log, "http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
