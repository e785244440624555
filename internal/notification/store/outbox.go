package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/outbox"
)

// OutboxQueue exposes the notification outbox to the relay.
type OutboxQueue struct {
	pool *pgxpool.Pool
}

func NewOutboxQueue(pool *pgxpool.Pool) *OutboxQueue {
	return &OutboxQueue{pool: pool}
}

func (q *OutboxQueue) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	return outbox.FetchPending(ctx, q.pool, limit)
}

func (q *OutboxQueue) MarkSent(ctx context.Context, id int64) error {
	return outbox.MarkSent(ctx, q.pool, id)
}
