package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/costumeapi"
	sqliteadapter "github.com/ericfisherdev/costumedesk/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/costumedesk/internal/adapter/driven/transport"
	"github.com/ericfisherdev/costumedesk/internal/application"
	"github.com/ericfisherdev/costumedesk/internal/config"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sqliteadapter.DB
	creds   *sqliteadapter.CredentialRepo
	gate    *application.AuthGate
	client  *transport.Client
	api     *costumeapi.Client
	session *application.SessionService
}

// newApp opens storage and wires the transport pipeline. Failed calls are
// reported on notifier.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, notifier driven.Notifier) (*app, error) {
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", db.Path())

	if err := sqliteadapter.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	creds := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	gate, err := application.NewAuthGate(ctx, creds, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := transport.New(cfg.APIBaseURL, gate,
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithAuthScheme(cfg.AuthScheme),
		transport.WithNotifier(notifier),
		transport.WithLogger(logger),
		transport.WithCache(cfg.HTTPCache),
		transport.WithDownloadDir(cfg.DownloadDir),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create transport client: %w", err)
	}
	gate.OnReset(client.Reset)

	api := costumeapi.New(client, cfg.MaxRetries)

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		creds:   creds,
		gate:    gate,
		client:  client,
		api:     api,
		session: application.NewSessionService(api, gate, logger),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// newLogger builds the process logger from configuration. Logs go to w so
// command output on stdout stays machine-readable.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// stderrNotifier prints notifications for CLI use.
type stderrNotifier struct {
	w io.Writer
}

func (n stderrNotifier) Notify(_ context.Context, note model.Notification) {
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", strings.ToLower(string(note.Level)), note.Message)
}
