package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/service"
	"github.com/smartsplit/smartsplit/internal/storage/sqlite"
	"github.com/smartsplit/smartsplit/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Invalid duration in env, using fallback", "key", key, "value", value)
	}
	return fallback
}

func main() {
	logging.Setup()

	addr := getEnv("ADDR", ":8080")
	dbPath := getEnv("DB_PATH", "./data/receipts.db")
	sessionSecret := getEnv("SESSION_SECRET", "")
	sessionTTL := getEnvDuration("SESSION_TTL", 24*time.Hour)

	if sessionSecret == "" {
		slog.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	tokens := auth.NewTokenManager(sessionSecret, sessionTTL)

	mux := http.NewServeMux()
	service.NewReceiptService(store, tokens).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// h2c lets HTTP/2 clients connect without TLS termination in front.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
