package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/domain"
)

// Postgres persists orders and their items. An order row and its item rows
// are written in one transaction so items are never left orphaned.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO orders(user_email, total_amount, status, shipping_address, created_at)
		 VALUES($1, $2, $3, $4, $5) RETURNING id`,
		order.UserEmail, order.TotalAmount, order.Status, order.ShippingAddress, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return domain.Order{}, err
	}

	for i := range order.Items {
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, product_id, product_name, quantity, price)
			 VALUES($1, $2, $3, $4, $5) RETURNING id`,
			order.ID, order.Items[i].ProductID, order.Items[i].ProductName,
			order.Items[i].Quantity, order.Items[i].Price,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return domain.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (p *Postgres) FindByUserEmail(ctx context.Context, email string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := p.pool.Query(ctx,
		`SELECT id, user_email, total_amount, status, shipping_address, created_at
		 FROM orders WHERE user_email=$1 ORDER BY id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserEmail, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := p.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (p *Postgres) itemsFor(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, product_id, product_name, quantity, price
		 FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
