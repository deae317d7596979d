package homenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
)

const (
	defaultTimeout = 10 * time.Second

	// errorBodyLimit bounds how much of an error response ends up in an error message.
	errorBodyLimit = 512
)

// DataObject is a named value on the home automation server.
type DataObject struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Client talks to the data-object REST API with basic authentication.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for cfg. No request is made; use Ping to
// check reachability.
func NewClient(cfg config.HomeAutomationServerConfig) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UpdateValueOnly sets the value of an existing data object.
func (c *Client) UpdateValueOnly(ctx context.Context, obj DataObject) error {
	if obj.Name == "" {
		return fmt.Errorf("%w: data object name is empty", ErrUpdateFailed)
	}

	body, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("%w: marshal data object: %w", ErrUpdateFailed, err)
	}

	path := "/api/dataobjects/" + url.PathEscape(obj.Name) + "/value"
	if err := c.do(ctx, http.MethodPut, path, body); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpdateFailed, obj.Name, err)
	}
	return nil
}

// Send pushes value to the data object name.
func (c *Client) Send(ctx context.Context, name, value string) error {
	return c.UpdateValueOnly(ctx, DataObject{Name: name, Value: value})
}

// Ping checks that the API answers an authenticated request.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/dataobjects", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return nil
}

// HealthCheck is Ping under the name the other targets use.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}
