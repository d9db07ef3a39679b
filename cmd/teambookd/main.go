// Command teambookd serves the contact REST API and the web GUI over an
// embedded SQLite database.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"golang.org/x/sync/errgroup"

	sqliteadapter "github.com/ericfisherdev/teambook/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/teambook/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/teambook/internal/adapter/driving/web"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/config"
	"github.com/ericfisherdev/teambook/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on unparsable env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"cors_origin", cfg.CORSOrigin,
		"page_size", cfg.PageSize,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", db.Path())

	// 4. Bring the contacts schema up to date on the writer connection.
	version, err := sqliteadapter.MigrateContacts(db.Writer)
	if err != nil {
		return err
	}
	logger.Info("contacts schema ready", "version", version)

	// 5. Wire the store and the service shared by both driving adapters.
	contactSvc := application.NewContactService(sqliteadapter.NewContactRepo(db))
	metricSet := metrics.NewSet()

	// 6. Register REST and GUI routes on one mux, then apply middleware.
	apiHandler := httphandler.NewHandler(contactSvc, logger, httphandler.WithReadiness(db.Ping))
	webHandler := webhandler.NewHandler(contactSvc, cfg.PageSize, logger)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler, metricSet)
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, httphandler.MuxConfig{
		CORSOrigin: cfg.CORSOrigin,
		Metrics:    metricSet,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 7. Serve until the signal context ends, then drain.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("teambookd started", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
