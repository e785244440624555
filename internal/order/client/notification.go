package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/workflow"
)

// Notification posts customer messages to the notification service. The
// response payload is not consumed; only the status matters.
type Notification struct {
	baseURL string
	client  *http.Client
}

func NewNotification(baseURL string, client *http.Client) *Notification {
	return &Notification{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *Notification) Send(ctx context.Context, msg workflow.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/notifications/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification send: status %d", resp.StatusCode)
	}
	return nil
}
