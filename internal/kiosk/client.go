package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTransport marks a scan relay that did not produce a usable response.
var ErrTransport = errors.New("relay transport failure")

// Relay carries scans to the backend.
type Relay interface {
	Scan(ctx context.Context, req RelayRequest) (ScanResult, error)
	// Status reports whether badge login is enabled. Any failure reads as disabled.
	Status(ctx context.Context) bool
}

// Client is the HTTP client of the badge service API.
type Client struct {
	BaseURL     string
	BearerToken string
	UserAgent   string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// NewClient creates a client with a bounded per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		UserAgent:  "badgectl-kiosk",
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
	}
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// WorkOrder is the work order summary returned by the API.
type WorkOrder struct {
	ID               string     `json:"id"`
	Number           string     `json:"wo_number"`
	ProductLabel     string     `json:"product"`
	ProductionLineID *string    `json:"production_line"`
	PlannedQuantity  float64    `json:"planned_quantity"`
	ProducedQuantity float64    `json:"produced_quantity"`
	CompletionRate   float64    `json:"completion_rate"`
	Status           string     `json:"status"`
	Priority         int        `json:"priority"`
	ActualStart      *time.Time `json:"actual_start"`
	ActualEnd        *time.Time `json:"actual_end"`
}

// Scan relays one scan. Network failures, non-2xx answers, timeouts and
// bodies that are not a valid scan result all wrap ErrTransport.
func (c *Client) Scan(ctx context.Context, req RelayRequest) (ScanResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "api/nfc/scan", req, &raw); err != nil {
		return ScanResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	result, err := DecodeScanResult(raw)
	if err != nil {
		return ScanResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return result, nil
}

// Status implements Relay.
func (c *Client) Status(ctx context.Context) bool {
	var resp struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.do(ctx, http.MethodGet, "api/nfc/status", nil, &resp); err != nil {
		return false
	}
	return resp.Enabled != nil && *resp.Enabled
}

// SetStatus toggles badge login. Requires a manager or admin token.
func (c *Client) SetStatus(ctx context.Context, enabled bool) error {
	return c.do(ctx, http.MethodPut, "api/nfc/status", map[string]any{"enabled": enabled}, nil)
}

// Login exchanges employee credentials for a bearer token and keeps it.
func (c *Client) Login(ctx context.Context, employeeCode, password string) error {
	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	body := map[string]any{"employee_code": employeeCode, "password": password}
	if err := c.do(ctx, http.MethodPost, "auth/login", body, &resp); err != nil {
		return err
	}
	if resp.Data.AccessToken == "" {
		return errors.New("login response carried no token")
	}
	c.BearerToken = resp.Data.AccessToken
	return nil
}

// ListWorkOrders lists work orders, optionally filtered by comma separated statuses.
func (c *Client) ListWorkOrders(ctx context.Context, status string) ([]WorkOrder, error) {
	endpoint := "api/work-orders"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var resp struct {
		Data []WorkOrder `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Data, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}
	target := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
