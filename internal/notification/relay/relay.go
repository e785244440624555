package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/outbox"
)

// Queue is the slice of the outbox the relay drains.
type Queue interface {
	FetchPending(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkSent(ctx context.Context, id int64) error
}

// Publisher writes one event to the downstream topic.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Relay moves pending outbox records onto the topic. Records are marked sent
// only after a successful publish, so delivery is at-least-once; a failed
// publish stops the batch and the remainder is retried on the next tick.
type Relay struct {
	queue     Queue
	publisher Publisher
	logger    *zap.Logger
	interval  time.Duration
	batchSize int
}

func New(queue Queue, publisher Publisher, logger *zap.Logger, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{queue: queue, publisher: publisher, logger: logger, interval: interval, batchSize: batchSize}
}

// Run drains the outbox until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.logger.Warn("outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce publishes at most one batch of pending records.
func (r *Relay) RunOnce(ctx context.Context) error {
	pending, err := r.queue.FetchPending(ctx, r.batchSize)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		if err := r.publisher.Publish(ctx, rec.Key, rec.Payload); err != nil {
			return err
		}
		if err := r.queue.MarkSent(ctx, rec.ID); err != nil {
			return err
		}
		r.logger.Info("outbox record published",
			zap.Int64("outbox_id", rec.ID),
			zap.String("event_id", rec.EventID),
			zap.String("topic", rec.Topic))
	}
	return nil
}
