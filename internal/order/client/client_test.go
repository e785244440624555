package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/workflow"
)

func TestInventoryAdjustRequestShape(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	inv := NewInventory(srv.URL, &http.Client{Timeout: time.Second})
	err := inv.Adjust(context.Background(), "P1", -2)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/inventory/P1/adjust", gotPath)
	assert.Equal(t, "adjustment=-2", gotQuery)
}

func TestInventoryAdjustErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	inv := NewInventory(srv.URL, &http.Client{Timeout: time.Second})
	err := inv.Adjust(context.Background(), "P1", -2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestInventoryAdjustUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	inv := NewInventory(srv.URL, &http.Client{Timeout: time.Second})
	err := inv.Adjust(context.Background(), "P1", -1)
	require.Error(t, err)
}

func TestNotificationSendRequestShape(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotification(srv.URL, &http.Client{Timeout: time.Second})
	err := n.Send(context.Background(), workflow.Message{
		Recipient: "a@x.com",
		Subject:   "Order Confirmation #7",
		Body:      "Thank you for your order. Total: 7.00 USD. Your scoops are coming!",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/notifications/send", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "a@x.com", gotBody["recipient"])
	assert.Equal(t, "Order Confirmation #7", gotBody["subject"])
	assert.Contains(t, gotBody["body"], "scoops")
}

func TestNotificationSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotification(srv.URL, &http.Client{Timeout: time.Second})
	err := n.Send(context.Background(), workflow.Message{Recipient: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
