package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// requestTimeout bounds each HTTP call to the dashboard.
const requestTimeout = 10 * time.Second

// Client posts to the dashboard API. It implements Publisher.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a client for a dashboard at baseURL, e.g.
// "http://localhost:5000". userAgent identifies the agent build.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// Configure implements Publisher.
func (c *Client) Configure(ctx context.Context, palette []protocol.StyleRule, widgets []protocol.Descriptor, title string) error {
	var resp protocol.ConfigResponse
	req := protocol.ConfigRequest{Palette: palette, Widgets: widgets, Title: &title}
	return c.post(ctx, "/api/config", req, &resp)
}

// Publish implements Publisher.
func (c *Client) Publish(ctx context.Context, title string, data map[string]protocol.Reading) ([]string, error) {
	var resp protocol.PushResponse
	req := protocol.PushRequest{Title: &title, Data: data}
	if err := c.post(ctx, "/api/push", req, &resp); err != nil {
		return nil, err
	}
	return resp.Pushed, nil
}

// Notify implements Publisher.
func (c *Client) Notify(ctx context.Context, title, message string) error {
	var resp protocol.MessageResponse
	req := protocol.MessageRequest{Title: title, Message: message, Type: "WARNING"}
	return c.post(ctx, "/api/message", req, &resp)
}

// post marshals body, POSTs it, and decodes the JSON response into
// out. Non-2xx statuses surface the server's error message.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("agent: marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("agent: create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("agent: post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr protocol.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("agent: %s returned %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("agent: %s returned %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("agent: decode %s response: %w", path, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}
