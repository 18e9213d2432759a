package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/marcin-skalski/ticketboard/internal/board"
)

// Payload is the body returned by the ticket feed.
type Payload struct {
	Tickets []board.Ticket `json:"tickets"`
	Users   []board.User   `json:"users"`
}

type Source interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// StatusError is returned when the feed answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// maxErrorBody caps how much of a failed response ends up in StatusError.
const maxErrorBody = 512

type Client struct {
	url     string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient returns a feed client for url. A zero timeout leaves requests
// unbounded.
func NewClient(url string, timeout time.Duration, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, http: httpClient, timeout: timeout, logger: logger}
}

func (c *Client) Fetch(ctx context.Context) (*Payload, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: c.url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var p Payload
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("parse tickets: %w", err)
	}

	c.logger.Info("fetched tickets",
		"url", c.url,
		"tickets", len(p.Tickets),
		"users", len(p.Users),
		"duration", time.Since(start).Round(time.Millisecond))
	return &p, nil
}
