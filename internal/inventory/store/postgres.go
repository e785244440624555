package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/inventory/domain"
)

var ErrNotFound = errors.New("inventory item not found")

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, productID string) (domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var item domain.Item
	err := p.pool.QueryRow(ctx,
		`SELECT id, product_id, stock_count FROM inventory WHERE product_id=$1`,
		productID,
	).Scan(&item.ID, &item.ProductID, &item.StockCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, ErrNotFound
	}
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// Adjust moves the stock count by delta in a single upsert, creating the row
// from zero when the product has never been stocked before.
func (p *Postgres) Adjust(ctx context.Context, productID string, delta int) (domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var item domain.Item
	err := p.pool.QueryRow(ctx,
		`INSERT INTO inventory(product_id, stock_count) VALUES($1, $2)
		 ON CONFLICT (product_id)
		 DO UPDATE SET stock_count = inventory.stock_count + EXCLUDED.stock_count, updated_at = now()
		 RETURNING id, product_id, stock_count`,
		productID, delta,
	).Scan(&item.ID, &item.ProductID, &item.StockCount)
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}
