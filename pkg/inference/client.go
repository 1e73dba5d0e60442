// Package inference is the HTTP client for the subject tutor chat endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"edu-dashboard-be/pkg/chat"

	"golang.org/x/time/rate"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	limiter *rate.Limiter
}

var _ chat.Endpoint = &Client{}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 2.0, BurstSize: 5}

func NewClient(baseURL string, timeout time.Duration, limit RateLimitConfig) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if limit.RequestsPerSecond <= 0 {
		limit = DefaultRateLimit
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), limit.BurstSize),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Ask posts {message, subject} to /api/chat. Non-2xx statuses come back as
// *chat.ServerError carrying the server's error text, if any.
func (c *Client) Ask(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return chat.Reply{}, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return chat.Reply{}, &chat.ServerError{Status: resp.StatusCode, Message: eb.Error}
	}

	var reply chat.Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return chat.Reply{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return reply, nil
}
