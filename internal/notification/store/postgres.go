package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/domain"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/contracts"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/outbox"
)

var ErrDuplicate = errors.New("notification already recorded")

// Postgres stores notifications together with their outbox record in one
// transaction, so every stored notification eventually reaches the topic.
type Postgres struct {
	pool  *pgxpool.Pool
	topic string
}

func NewPostgres(pool *pgxpool.Pool, topic string) *Postgres {
	return &Postgres{pool: pool, topic: topic}
}

func (p *Postgres) Save(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Notification{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO notifications(event_id, recipient, subject, body)
		 VALUES($1, $2, $3, $4) RETURNING id, created_at`,
		n.EventID, n.Recipient, n.Subject, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
	if isUniqueViolation(err) {
		return domain.Notification{}, ErrDuplicate
	}
	if err != nil {
		return domain.Notification{}, err
	}

	event := contracts.Event{
		EventID:   n.EventID,
		CreatedAt: n.CreatedAt,
		Type:      contracts.EventNotificationSent,
		Payload: map[string]any{
			"recipient": n.Recipient,
			"subject":   n.Subject,
			"body":      n.Body,
		},
	}
	if err := outbox.Insert(ctx, tx, n.EventID, p.topic, n.Recipient, event); err != nil {
		return domain.Notification{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
