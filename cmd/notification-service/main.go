package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/handlers"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/relay"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/store"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/kafka"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/logging"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

type cfg struct {
	Port          string
	DatabaseURL   string
	KafkaBrokers  string
	Topic         string
	RelayInterval time.Duration
	RelayBatch    int
}

func readCfg() (cfg, error) {
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return cfg{}, errors.New("DATABASE_URL is required")
	}
	intervalMS, _ := strconv.Atoi(getenv("RELAY_INTERVAL_MS", "1000"))
	batch, _ := strconv.Atoi(getenv("RELAY_BATCH_SIZE", "100"))

	return cfg{
		Port:          getenv("PORT", "8001"),
		DatabaseURL:   db,
		KafkaBrokers:  getenv("KAFKA_BROKERS", ""),
		Topic:         getenv("KAFKA_TOPIC", "icecream.notifications"),
		RelayInterval: time.Duration(intervalMS) * time.Millisecond,
		RelayBatch:    batch,
	}, nil
}

type kafkaPublisher struct {
	writer *kafkago.Writer
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return kafka.PublishJSON(ctx, p.writer, key, json.RawMessage(payload))
}

func main() {
	logger := logging.New("notification-service")
	defer func() { _ = logger.Sync() }()

	cfg, err := readCfg()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()
	pool, err := pgxpool.New(connectCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(connectCtx); err != nil {
		logger.Fatal("db ping error", zap.Error(err))
	}

	kafkaClient := kafka.NewClient(cfg.KafkaBrokers)
	if kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(cfg.Topic)
		defer writer.Close()
		r := relay.New(
			store.NewOutboxQueue(pool),
			&kafkaPublisher{writer: writer},
			logger,
			cfg.RelayInterval,
			cfg.RelayBatch,
		)
		go r.Run(ctx)
		logger.Info("outbox relay started",
			zap.Strings("brokers", kafkaClient.Brokers),
			zap.String("topic", cfg.Topic))
	}

	srvMetrics := metrics.NewServerMetrics("notification_service")
	mux := http.NewServeMux()
	handlers.New(store.NewPostgres(pool, cfg.Topic), logger, srvMetrics).Register(mux)
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
	logger.Info("notification-service listening", zap.String("port", cfg.Port))
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
