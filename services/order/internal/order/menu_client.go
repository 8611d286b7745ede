package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ProductInfo is the catalog snapshot taken once per order line at creation
// time. Prices are never re-fetched after the order exists.
type ProductInfo struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// MenuClient looks products up in the menu catalog service.
type MenuClient interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
}

// HTTPMenuClient implements MenuClient against the menu service HTTP API.
type HTTPMenuClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPMenuClient(baseURL string) *HTTPMenuClient {
	if baseURL == "" {
		baseURL = "http://localhost:8084"
	}
	return &HTTPMenuClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// productEnvelope matches the menu service's response shape, which wraps the
// payload under a data key.
type productEnvelope struct {
	Data ProductInfo `json:"data"`
}

func (c *HTTPMenuClient) GetProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/menu/items/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu service returned status %d", resp.StatusCode)
	}

	var envelope productEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode menu response: %w", err)
	}

	return &envelope.Data, nil
}
