// Ticket upgrade chat and order server.
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/milan9527/agentticket-sub002/internal/agentcore"
	"github.com/milan9527/agentticket-sub002/internal/api"
	"github.com/milan9527/agentticket-sub002/internal/auth"
	"github.com/milan9527/agentticket-sub002/internal/chat"
	"github.com/milan9527/agentticket-sub002/internal/config"
	"github.com/milan9527/agentticket-sub002/internal/middleware"
	"github.com/milan9527/agentticket-sub002/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Agent gateway with cached password-grant credentials. The token is
	// fetched lazily on the first tool call.
	creds := agentcore.NewPasswordGrant(cfg.Agent, &http.Client{Timeout: 15 * time.Second})
	gateway := agentcore.NewClient(cfg.Agent, creds, logger)

	// Services and handlers.
	verifier := auth.NewVerifier(cfg.JWTSecret)
	chatService := chat.NewService(gateway, cfg.HistoryLimit, logger)
	chatHandler := chat.NewHandler(chatService, logger)
	wsHandler := chat.NewWebSocketHandler(chatService, cfg.FrontendURL, cfg.IsDevelopment(), logger)
	baseHandler := api.NewHandler(repo, gateway, cfg.FrontendURL, cfg.Timeout.HealthCheck)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	r.Get("/health", baseHandler.HandleHealth)

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		chatHandler.RegisterRoutes(r)
		baseHandler.RegisterTicketRoutes(r)
		baseHandler.RegisterCustomerRoutes(r)
		baseHandler.RegisterOrderRoutes(r)
		r.Get("/ws/chat", wsHandler.ServeHTTP)
	})

	// Note: SSE upstreams can hold responses open for the full agent call
	// timeout, so the server write timeout stays disabled.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
