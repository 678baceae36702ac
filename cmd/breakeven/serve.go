package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/breakeven/internal/di"
	"github.com/aristath/breakeven/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.serve()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8001, "HTTP server port (defaults to GO_PORT)")
	return cmd
}

// serve runs the server until SIGINT or SIGTERM, then shuts down gracefully
func (a *app) serve() error {
	log := a.log
	log.Info().Msg("Starting breakeven")

	container, err := di.Wire(a.cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close resources")
		}
	}()

	srv := server.New(server.Config{
		Log:       log,
		Port:      a.cfg.Port,
		DevMode:   a.cfg.DevMode,
		Container: container,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	container.Scheduler.Start()
	log.Info().Int("port", a.cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serverErr:
		container.Scheduler.Stop()
		return err
	}

	log.Info().Msg("Shutting down server...")
	container.Scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}
