// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/api"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/transfer"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("uploads_path", cfg.Uploads.Path),
		slog.Int("accounts", len(cfg.Accounts)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure uploads directory exists.
	if err := os.MkdirAll(cfg.Uploads.Path, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	// Initialize the store.
	st, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	// Bootstrap the configured accounts; tokens rotate on restart.
	if err := bootstrapAccounts(ctx, st, cfg.Accounts); err != nil {
		return fmt.Errorf("bootstrap accounts: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build the import/export engine and router.
	engine := transfer.NewEngine(st)
	apiRouter := api.NewRouter(st, engine, broker, cfg.Uploads.Path)
	avatars := api.NewAvatarHandler(cfg.Uploads.Path)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Avatar files (unauthenticated, like any static asset).
	r.Get("/avatars/{filename}", avatars.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server for the first configured account.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// The MCP transport owns stdout, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	if err := bootstrapAccounts(ctx, st, cfg.Accounts); err != nil {
		return fmt.Errorf("bootstrap accounts: %w", err)
	}
	account, err := st.AccountByEmail(ctx, cfg.Accounts[0].Email)
	if err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}

	logger.Info("Starting MCP server", slog.String("account", account.Email))
	return mcpserver.New(st, account).ServeStdio()
}

func bootstrapAccounts(ctx context.Context, st *store.Store, accounts []AccountConfig) error {
	for _, a := range accounts {
		if _, err := st.UpsertAccount(ctx, a.Email, a.DisplayName, a.Token); err != nil {
			return fmt.Errorf("account %s: %w", a.Email, err)
		}
	}
	return nil
}
