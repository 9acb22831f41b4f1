// Package generator forwards workout-generation prompts to the external model service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned when the model service cannot be reached.
var ErrUnavailable = errors.New("generation service unavailable")

const maxResponseBytes = 4 << 20

// Response is the model service reply as received.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the service answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Status is the result of probing the model service.
type Status struct {
	Status      string    `json:"status"`
	StatusCode  int       `json:"statusCode,omitempty"`
	LastChecked time.Time `json:"lastChecked"`
	Details     string    `json:"details"`
}

// Client posts prompts to the model service. It never retries.
type Client struct {
	client *http.Client
	url    string
	logger *log.Logger
}

// NewClient constructs a Client. A zero timeout leaves the transport default.
func NewClient(endpoint string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[generator] ", log.LstdFlags|log.Lmsgprefix)
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		logger: logger,
	}
}

// Generate sends inputText and returns the service reply whatever its status.
// Only transport failures produce an error, wrapping ErrUnavailable.
func (c *Client) Generate(ctx context.Context, inputText string) (*Response, error) {
	c.logger.Printf("forwarding prompt: %s", truncate(inputText, 100))

	resp, err := c.post(ctx, inputText)
	if err != nil {
		c.logger.Printf("generation request failed: %v", err)
		return nil, err
	}
	if !resp.OK() {
		c.logger.Printf("generation service returned %d: %s", resp.StatusCode, truncate(string(resp.Body), 200))
	}
	return resp, nil
}

// Check sends a test prompt and reports whether the service is online.
func (c *Client) Check(ctx context.Context) Status {
	now := time.Now().UTC()
	resp, err := c.post(ctx, "Connection test")
	if err != nil {
		return Status{Status: "offline", LastChecked: now, Details: err.Error()}
	}
	if !resp.OK() {
		return Status{Status: "error", StatusCode: resp.StatusCode, LastChecked: now, Details: string(resp.Body)}
	}
	return Status{Status: "online", StatusCode: resp.StatusCode, LastChecked: now, Details: "Fully operational"}
}

func (c *Client) post(ctx context.Context, inputText string) (*Response, error) {
	body, err := json.Marshal(map[string]string{"inputText": inputText})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
