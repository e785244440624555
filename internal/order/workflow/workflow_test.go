package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/domain"
)

type fakeStore struct {
	nextID int64
	saved  []domain.Order
	err    error
}

func (s *fakeStore) Save(_ context.Context, order domain.Order) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	s.nextID++
	order.ID = s.nextID
	for i := range order.Items {
		order.Items[i].ID = s.nextID*100 + int64(i) + 1
	}
	s.saved = append(s.saved, order)
	return order, nil
}

func (s *fakeStore) FindByUserEmail(_ context.Context, email string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.saved {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}

type adjustCall struct {
	productID string
	delta     int
}

type fakeInventory struct {
	calls []adjustCall
	err   error
}

func (f *fakeInventory) Adjust(_ context.Context, productID string, delta int) error {
	f.calls = append(f.calls, adjustCall{productID: productID, delta: delta})
	return f.err
}

type fakeNotifier struct {
	calls []Message
	err   error
}

func (f *fakeNotifier) Send(_ context.Context, msg Message) error {
	f.calls = append(f.calls, msg)
	return f.err
}

func sampleOrder() domain.Order {
	return domain.Order{
		UserEmail:       "a@x.com",
		TotalAmount:     7.0,
		ShippingAddress: "12 Sundae Lane",
		Items: []domain.OrderItem{
			{ProductID: "P1", ProductName: "Vanilla Tub", Quantity: 2, Price: 3.5},
		},
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInventory{}
	notif := &fakeNotifier{}
	w := New(store, inv, notif, zap.NewNop())

	before := time.Now().UTC()
	got, err := w.PlaceOrder(context.Background(), sampleOrder())
	after := time.Now().UTC()
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, domain.StatusPlaced, got.Status)
	assert.Equal(t, "a@x.com", got.UserEmail)
	assert.False(t, got.CreatedAt.Before(before), "createdAt before invocation")
	assert.False(t, got.CreatedAt.After(after), "createdAt after completion")
	require.Len(t, got.Items, 1)
	assert.Positive(t, got.Items[0].ID)

	require.Len(t, inv.calls, 1)
	assert.Equal(t, adjustCall{productID: "P1", delta: -2}, inv.calls[0])

	require.Len(t, notif.calls, 1)
	assert.Equal(t, "a@x.com", notif.calls[0].Recipient)
	assert.Equal(t, fmt.Sprintf("Order Confirmation #%d", got.ID), notif.calls[0].Subject)
	assert.Contains(t, notif.calls[0].Body, "7.00")
}

func TestPlaceOrderOneAdjustmentPerItem(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInventory{}
	notif := &fakeNotifier{}
	w := New(store, inv, notif, zap.NewNop())

	in := sampleOrder()
	in.Items = append(in.Items,
		domain.OrderItem{ProductID: "P2", ProductName: "Mint Swirl", Quantity: 1, Price: 4.0},
		domain.OrderItem{ProductID: "P3", ProductName: "Waffle Cone", Quantity: 6, Price: 0.5},
	)

	_, err := w.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, inv.calls, 3)
	assert.Equal(t, []adjustCall{
		{productID: "P1", delta: -2},
		{productID: "P2", delta: -1},
		{productID: "P3", delta: -6},
	}, inv.calls)
	assert.Len(t, notif.calls, 1)
	assert.Len(t, store.saved, 1)
}

func TestPlaceOrderSurvivesInventoryOutage(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInventory{err: errors.New("connection refused")}
	notif := &fakeNotifier{}
	w := New(store, inv, notif, zap.NewNop())

	got, err := w.PlaceOrder(context.Background(), sampleOrder())
	require.NoError(t, err)

	// Every item was still attempted and the order still went through.
	assert.Len(t, inv.calls, 1)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, domain.StatusPlaced, got.Status)
	assert.Len(t, notif.calls, 1)
}

func TestPlaceOrderSurvivesNotificationOutage(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInventory{}
	notif := &fakeNotifier{err: errors.New("timeout")}
	w := New(store, inv, notif, zap.NewNop())

	got, err := w.PlaceOrder(context.Background(), sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	// The persisted order is unaffected by the failed send.
	orders, err := w.OrdersByUser(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, got.ID, orders[0].ID)
}

func TestPlaceOrderFailsWhenSaveFails(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	inv := &fakeInventory{}
	notif := &fakeNotifier{}
	w := New(store, inv, notif, zap.NewNop())

	_, err := w.PlaceOrder(context.Background(), sampleOrder())
	require.Error(t, err)

	// No notification after a failed save, and nothing readable afterwards.
	assert.Empty(t, notif.calls)
	orders, ferr := w.OrdersByUser(context.Background(), "a@x.com")
	require.NoError(t, ferr)
	assert.Empty(t, orders)
}

func TestPlaceOrderDiscardsCallerAssignedFields(t *testing.T) {
	store := &fakeStore{}
	w := New(store, &fakeInventory{}, &fakeNotifier{}, zap.NewNop())

	in := sampleOrder()
	in.ID = 9999
	in.Status = domain.StatusDelivered
	in.CreatedAt = time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)
	in.Items[0].ID = 4242

	before := time.Now().UTC()
	got, err := w.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, domain.StatusPlaced, got.Status)
	assert.False(t, got.CreatedAt.Before(before))
	assert.NotEqual(t, int64(4242), got.Items[0].ID)
}

func TestPlaceOrderIsNotIdempotent(t *testing.T) {
	store := &fakeStore{}
	inv := &fakeInventory{}
	notif := &fakeNotifier{}
	w := New(store, inv, notif, zap.NewNop())

	first, err := w.PlaceOrder(context.Background(), sampleOrder())
	require.NoError(t, err)
	second, err := w.PlaceOrder(context.Background(), sampleOrder())
	require.NoError(t, err)

	// Identical input still produces two distinct orders and two full rounds
	// of side calls. There is no deduplication key.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.saved, 2)
	assert.Len(t, inv.calls, 2)
	assert.Len(t, notif.calls, 2)
}
