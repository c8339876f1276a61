package customer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// Client calls the customer identity service. Any transport failure or
// non-success response counts as an invalid customer (fail-closed), so an
// unreachable identity service blocks order creation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a customer client from configuration.
func NewClient() *Client {
	timeout := viper.GetDuration("customer_service.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: viper.GetString("customer_service.base_url"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IsValidCustomer reports whether the identity service knows the customer.
func (c *Client) IsValidCustomer(ctx context.Context, customerID string) bool {
	url := fmt.Sprintf("%s/api/customers/%s", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("Failed to build customer validation request", "customer_id", customerID, "error", err)

		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to validate customer", "customer_id", customerID, "error", err)

		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
