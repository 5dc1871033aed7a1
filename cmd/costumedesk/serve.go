package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/costumedesk/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/costumedesk/internal/adapter/driving/web"
	"github.com/ericfisherdev/costumedesk/internal/application"
)

func newServeCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web GUI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), env)
		},
	}
}

func runServe(ctx context.Context, env *cliEnv) error {
	cfg, logger := env.cfg, env.logger
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"api_base_url", cfg.APIBaseURL,
		"db_path", cfg.DBPath,
		"credential_encryption", cfg.HasSecretKey(),
	)

	// 1. Wire the pipeline with the flash queue as its notification channel.
	notes := application.NewNotificationCenter(application.DefaultNotificationCapacity)
	a, err := newApp(ctx, cfg, logger, notes)
	if err != nil {
		return err
	}
	defer a.close()
	a.gate.OnReset(notes.Reset)

	// 2. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(a.session, a.api, logger))

	webHandler, err := webhandler.NewHandler(a.session, a.api, notes, logger)
	if err != nil {
		return err
	}
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Covers the slowest backend call: every retry attempt plus backoff.
		WriteTimeout: cfg.RequestTimeout*time.Duration(cfg.MaxRetries) + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("costumedesk started",
		"listen_addr", cfg.ListenAddr,
		"authenticated", a.gate.IsAuthenticated(),
	)

	// 3. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 4. Graceful shutdown with 10s timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
