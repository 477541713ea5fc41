package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrJamesThe3rd/procurement/internal/config"
	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/document"
	"github.com/MrJamesThe3rd/procurement/internal/export"
	procHttp "github.com/MrJamesThe3rd/procurement/internal/http"
	documentHandler "github.com/MrJamesThe3rd/procurement/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/procurement/internal/http/export"
	notificationHandler "github.com/MrJamesThe3rd/procurement/internal/http/notification"
	purchaseHandler "github.com/MrJamesThe3rd/procurement/internal/http/purchase"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/logger"
	"github.com/MrJamesThe3rd/procurement/internal/metrics"
	"github.com/MrJamesThe3rd/procurement/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/procurement/internal/notification/store"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
	purchaseStore "github.com/MrJamesThe3rd/procurement/internal/purchase/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.App.Env, cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	notificationService := notification.NewService(notificationStore.New(db, cfg.DB.Driver))

	var notifier purchase.Notifier = notificationService
	if m != nil {
		notifier = m.InstrumentNotifier(notificationService)
	}

	var (
		purchaseService = purchase.NewService(purchaseStore.New(db, cfg.DB.Driver), notifier)
		exportService   = export.NewService(purchaseService)
	)

	renderer, err := document.New(document.Letterhead(cfg.Letterhead))
	if err != nil {
		return fmt.Errorf("loading document templates: %w", err)
	}

	var (
		purchaseH = purchaseHandler.NewHandler(purchaseService, respond.NewValidator(), purchaseHandler.Limits{
			Default: cfg.List.DefaultLimit,
			Max:     cfg.List.MaxLimit,
		})
		notificationH = notificationHandler.NewHandler(notificationService)
		exportH       = exportHandler.NewHandler(exportService)
		documentH     = documentHandler.NewHandler(purchaseService, renderer)
	)

	router := procHttp.New(procHttp.Options{
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.CORS.Origins,
		Metrics:     m,
		Ping:        func(ctx context.Context) error { return database.Ping(ctx, db) },
	}, purchaseH, notificationH, exportH, documentH)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := procHttp.NewServer(router, addr, cfg.Server.Timeout)
	srv.Start()

	slog.Info("starting server", "addr", addr, "driver", cfg.DB.Driver, "env", cfg.App.Env)

	select {
	case err := <-srv.Notify():
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return <-srv.Notify()
}
