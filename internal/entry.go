// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/starford/colorpad/internal/api"
	"github.com/starford/colorpad/internal/document"
	"github.com/starford/colorpad/internal/inbox"
	"github.com/starford/colorpad/internal/sse"
	"github.com/starford/colorpad/internal/storage"
)

func build(opts []Option) (*application, error) {
	app := &application{version: "dev", stdout: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// openEditor opens the configured gateway and loads the document into a new
// editor. Callers close both.
func openEditor(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...document.Option) (*document.Editor, storage.Gateway, error) {
	gw, err := storage.Open(cfg.Storage.Options())
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	opts = append([]document.Option{
		document.WithLogger(logger),
		document.WithKey(cfg.Storage.Key),
		document.WithSaveDebounce(cfg.Editor.SaveDebounce),
		document.WithSaveTimeout(cfg.Editor.SaveTimeout),
	}, opts...)
	ed := document.New(gw, opts...)

	if err := ed.Load(ctx); err != nil {
		ed.Close()
		_ = gw.Close()
		return nil, nil, fmt.Errorf("load document: %w", err)
	}
	return ed, gw, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := build(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger, logCloser := newLogger(cfg.App, os.Stdout)
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_key", cfg.Storage.Key),
		slog.String("inbox_path", cfg.Inbox.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker and the presenter that feeds it.
	broker := sse.NewBroker()
	defer broker.Close()
	presenter := sse.NewPresenter(broker)

	ed, gw, err := openEditor(ctx, cfg, logger,
		document.WithPresenter(presenter),
		document.WithSaveListener(presenter.Saved),
	)
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "storage", gw)
	defer ed.Close()

	apiRouter := api.NewRouter(ed, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := ed.Document(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Transcription inbox.
	if cfg.Inbox.Enabled() {
		g.Go(func() error {
			return inbox.Watch(gCtx, cfg.Inbox.Path, ed, logger)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		if err := ed.Flush(shutdownCtx); err != nil {
			logger.Error("Flush pending save failed", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been shut down, so
// long-running watchers stop too.
var errShutdown = errors.New("shutdown")

// closeQuietly closes c and logs a failure.
func closeQuietly(logger *slog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", slog.String("resource", name), slog.String("error", err.Error()))
	}
}
