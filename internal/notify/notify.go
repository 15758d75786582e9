// Package notify delivers conversion lifecycle events to a configured
// webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Event names.
const (
	EventCompleted = "conversion.completed"
	EventFailed    = "conversion.failed"
)

// Event is the JSON body posted to the webhook.
type Event struct {
	Event      string    `json:"event"`
	JobID      string    `json:"job_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title,omitempty"`
	Format     string    `json:"format,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	Pages      int       `json:"pages,omitempty"`
	Sections   int       `json:"sections,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Client posts events to a single webhook endpoint.
type Client struct {
	endpoint   string
	secret     string
	httpClient *http.Client
}

func New(endpoint, secret string) *Client {
	return &Client{
		endpoint: endpoint,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one event. Any non-2xx response is an error carrying an
// excerpt of the response body.
func (c *Client) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post event %s: status %d: %s", ev.Event, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
