package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yeremiapane/foodiehub/services"
)

// OrderAPIClient talks to a remote order service exposing /api/orders.
type OrderAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

type createdOrder struct {
	ID uint `json:"id"`
}

func NewOrderAPIClient(baseURL string) *OrderAPIClient {
	return &OrderAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SubmitOrder posts one order and returns the id the service assigned.
func (c *OrderAPIClient) SubmitOrder(ctx context.Context, req services.OrderRequest) (uint, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/orders", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(httpReq)
	if err != nil {
		return 0, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		var out createdOrder
		if err := decode(body, &out); err != nil {
			return 0, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return out.ID, nil
	case http.StatusBadRequest, http.StatusNotFound:
		return 0, fmt.Errorf("order rejected: %s", string(body))
	default:
		return 0, fmt.Errorf("unexpected status code %d: %s", status, string(body))
	}
}

// CountOrders fetches GET /api/orders/user/{name}. Any non-200 answer,
// including 404 for an unknown user, is an error.
func (c *OrderAPIClient) CountOrders(ctx context.Context, userName string) (int, error) {
	endpoint := fmt.Sprintf("%s/api/orders/user/%s", c.baseURL, url.PathEscape(userName))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	body, status, err := c.do(httpReq)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("order history returned %d: %s", status, string(body))
	}

	var orders []json.RawMessage
	if err := decode(body, &orders); err != nil {
		return 0, fmt.Errorf("failed to unmarshal order history: %w", err)
	}
	return len(orders), nil
}

func (c *OrderAPIClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call order service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// decode accepts both a bare payload and the {"status","message","data"}
// envelope this service itself responds with.
func decode(body []byte, v interface{}) error {
	var envelope struct {
		Status *bool           `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Status != nil {
		if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
			return json.Unmarshal([]byte("null"), v)
		}
		return json.Unmarshal(envelope.Data, v)
	}
	return json.Unmarshal(body, v)
}
