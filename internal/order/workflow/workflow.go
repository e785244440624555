package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/domain"
)

// Store is the durable order record. Save must persist the order and its
// items together and return the stored value with generated ids populated.
type Store interface {
	Save(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByUserEmail(ctx context.Context, email string) ([]domain.Order, error)
}

// InventoryAdjuster applies a signed stock delta for one product line.
type InventoryAdjuster interface {
	Adjust(ctx context.Context, productID string, delta int) error
}

type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NotificationSender delivers a best-effort customer notification.
type NotificationSender interface {
	Send(ctx context.Context, msg Message) error
}

// Workflow coordinates order placement across the inventory and notification
// collaborators. There is no transaction spanning the three steps: inventory
// deductions and the notification are fire-and-forget, only the order save is
// allowed to fail the operation.
type Workflow struct {
	store     Store
	inventory InventoryAdjuster
	notifier  NotificationSender
	logger    *zap.Logger
}

func New(store Store, inventory InventoryAdjuster, notifier NotificationSender, logger *zap.Logger) *Workflow {
	return &Workflow{store: store, inventory: inventory, notifier: notifier, logger: logger}
}

// PlaceOrder deducts stock for every line item, persists the order and sends
// the confirmation notification. Caller-supplied id, status and createdAt are
// discarded. The operation is not idempotent: every call creates a new order
// and a fresh round of side calls.
func (w *Workflow) PlaceOrder(ctx context.Context, in domain.Order) (domain.Order, error) {
	in.ID = 0
	in.Status = domain.StatusPlaced
	in.CreatedAt = time.Now().UTC()
	for i := range in.Items {
		in.Items[i].ID = 0
	}

	// Step 1: stock deduction, one isolated call per item. A failed call is
	// logged and skipped; earlier deductions are never rolled back.
	for _, item := range in.Items {
		if err := w.inventory.Adjust(ctx, item.ProductID, -item.Quantity); err != nil {
			w.logger.Warn("failed to adjust inventory",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}

	// Step 2: the only step whose failure fails the whole call.
	saved, err := w.store.Save(ctx, in)
	if err != nil {
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	// Step 3: confirmation references the generated id, so it can only run
	// after a successful save.
	msg := Message{
		Recipient: saved.UserEmail,
		Subject:   fmt.Sprintf("Order Confirmation #%d", saved.ID),
		Body:      fmt.Sprintf("Thank you for your order. Total: %.2f USD. Your scoops are coming!", saved.TotalAmount),
	}
	if err := w.notifier.Send(ctx, msg); err != nil {
		w.logger.Warn("failed to send notification",
			zap.Int64("order_id", saved.ID),
			zap.Error(err))
	}

	return saved, nil
}

// OrdersByUser returns every order placed with the given email, oldest first.
func (w *Workflow) OrdersByUser(ctx context.Context, email string) ([]domain.Order, error) {
	return w.store.FindByUserEmail(ctx, email)
}
