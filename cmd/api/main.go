package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nospelin-a11y/guerreros2026-2/internal/api"
	"github.com/nospelin-a11y/guerreros2026-2/internal/auth"
	"github.com/nospelin-a11y/guerreros2026-2/internal/config"
	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
	"github.com/nospelin-a11y/guerreros2026-2/internal/logging"
	"github.com/nospelin-a11y/guerreros2026-2/internal/persistence/localfile"
	persistence "github.com/nospelin-a11y/guerreros2026-2/internal/persistence/postgres"
	"github.com/nospelin-a11y/guerreros2026-2/internal/session"
	"github.com/nospelin-a11y/guerreros2026-2/internal/store"
	httptransport "github.com/nospelin-a11y/guerreros2026-2/internal/transport/http"
)

func main() {
	// .env is optional outside local dev.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New()
	sessions := session.New(cfg.SessionFile, logger)

	var adapter domain.Adapter
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		repo := persistence.NewRepository(pool, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}
		adapter = repo
	default:
		adapter = localfile.New(cfg.DataFile, st, logger)
	}
	defer adapter.Close()

	service := domain.NewService(st, adapter, sessions,
		domain.WithLogger(logger),
		domain.WithDailyLimit(cfg.DailyWorkoutLimit),
	)
	if err := service.Load(ctx); err != nil {
		logger.Warn("snapshot loaded with missing collections", zap.Error(err))
	}

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	handler := api.NewHandler(service, authCfg, cfg.TokenTTL)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	requestLogger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(authCfg, func(r *http.Request) bool {
		switch r.URL.Path {
		case "/v1/login", "/healthz", "/metrics":
			return true
		}
		return r.Method == http.MethodOptions
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, authMiddleware.Wrap(requestLogger(cors(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("ledger listening",
			zap.String("address", cfg.HTTPAddress),
			zap.String("backend", cfg.StorageBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
