package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/inventory/handlers"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/inventory/store"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/logging"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

type cfg struct {
	Port        string
	DatabaseURL string
}

func readCfg() (cfg, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return cfg{}, errors.New("DATABASE_URL is required")
	}
	return cfg{Port: getenv("PORT", "8084"), DatabaseURL: db}, nil
}

func main() {
	logger := logging.New("inventory-service")
	defer func() { _ = logger.Sync() }()

	cfg, err := readCfg()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("db ping error", zap.Error(err))
	}

	srvMetrics := metrics.NewServerMetrics("inventory_service")
	mux := http.NewServeMux()
	handlers.New(store.NewPostgres(pool), logger, srvMetrics).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db_error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("inventory-service listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server error", zap.Error(err))
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
