package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Inventory talks to the inventory service's adjustment endpoint. It knows
// nothing about orders; it only moves stock counts by a signed delta.
type Inventory struct {
	baseURL string
	client  *http.Client
}

func NewInventory(baseURL string, client *http.Client) *Inventory {
	return &Inventory{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *Inventory) Adjust(ctx context.Context, productID string, delta int) error {
	endpoint := fmt.Sprintf("%s/api/inventory/%s/adjust?adjustment=%d",
		c.baseURL, url.PathEscape(productID), delta)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("inventory adjust for %s: status %d", productID, resp.StatusCode)
	}
	return nil
}
