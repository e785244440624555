package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/client"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/handlers"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/store"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/workflow"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/logging"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

type cfg struct {
	Port                string
	DatabaseURL         string
	InventoryBaseURL    string
	NotificationBaseURL string
	RequestTimeout      time.Duration
}

func readCfg() (cfg, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return cfg{}, errors.New("DATABASE_URL is required")
	}
	toutMS, _ := strconv.Atoi(getenv("REQUEST_TIMEOUT_MS", "2500"))

	return cfg{
		Port:                getenv("PORT", "8082"),
		DatabaseURL:         db,
		InventoryBaseURL:    strings.TrimRight(getenv("INVENTORY_BASE_URL", "http://inventory-service:8084"), "/"),
		NotificationBaseURL: strings.TrimRight(getenv("NOTIFICATION_BASE_URL", "http://notification-service:8001"), "/"),
		RequestTimeout:      time.Duration(toutMS) * time.Millisecond,
	}, nil
}

func main() {
	logger := logging.New("order-service")
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

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	wf := workflow.New(
		store.NewPostgres(pool),
		client.NewInventory(cfg.InventoryBaseURL, httpClient),
		client.NewNotification(cfg.NotificationBaseURL, httpClient),
		logger,
	)

	srvMetrics := metrics.NewServerMetrics("order_service")
	mux := http.NewServeMux()
	handlers.New(wf, logger, srvMetrics).Register(mux)
	mux.HandleFunc("/health", healthHandler(pool))
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("order-service listening",
		zap.String("port", cfg.Port),
		zap.String("inventory_base_url", cfg.InventoryBaseURL),
		zap.String("notification_base_url", cfg.NotificationBaseURL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server error", zap.Error(err))
	}
}

func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db_error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
