package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain"
)

type ShippingLabel struct {
	TrackingID string `json:"trackingId"`
	Carrier    string `json:"carrier"`
	LabelURL   string `json:"labelUrl"`
}

type labelRequest struct {
	OrderID uint64                 `json:"orderId"`
	Address domain.ShippingAddress `json:"address"`
	Items   []labelItem            `json:"items"`
}

type labelItem struct {
	ProductID uint64 `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// ShippingClient talks to the courier aggregator. It is only called after a
// placement has committed; its failures are reported, never rolled back into
// the order.
type ShippingClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewShippingClient(baseURL string, timeout time.Duration) *ShippingClient {
	return &ShippingClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ShippingClient) CreateLabel(ctx context.Context, order *domain.Order) (*ShippingLabel, error) {
	payload := labelRequest{
		OrderID: order.ID,
		Address: order.ShippingAddress,
	}
	for _, ln := range order.Lines {
		payload.Items = append(payload.Items, labelItem{ProductID: ln.ProductID, Quantity: ln.Quantity})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/labels", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("shipping service returned status %d", resp.StatusCode)
	}

	var label ShippingLabel
	if err := json.NewDecoder(resp.Body).Decode(&label); err != nil {
		return nil, err
	}
	return &label, nil
}
