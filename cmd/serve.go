package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmontes/listry/pkg/api"
	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/jmontes/listry/pkg/log"
	"github.com/jmontes/listry/pkg/realtime"
	"github.com/jmontes/listry/pkg/render"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on",
				Value: ":8080",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"))
		},
	}
}

func serve(ctx context.Context, configPath, listenAddr string) error {
	logger := log.ForService("serve")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	notifier := core.NewNotifier()
	registry, err := buildRegistry(cfg, notifier)
	if err != nil {
		return fmt.Errorf("building filter registry: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnf("closing store: %v", err)
		}
	}()

	renderer, err := render.NewRenderer(registry, notifier, cfg.BasePath)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	orchestrator := newOrchestrator(cfg, registry, notifier)
	hub := realtime.NewHub(0)

	server := api.NewServer(registry, store, orchestrator, renderer, hub, cfg)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      api.CorsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s with %d filters", listenAddr, len(registry.List(filter.ListOptions{})))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logger.Infof("received %v, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
