// Package remote implements the sender side of the offline queue contract:
// pending ops are POSTed one at a time to a remote sync endpoint, and the
// endpoint's reachability doubles as the store's connectivity signal.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/shoplist/internal/model"
)

const (
	probeTimeout = 2 * time.Second
	sendBackoff  = 250 * time.Millisecond
	sendRetries  = 3
)

// Always reports the remote as reachable unconditionally. Used when no
// remote is configured, so mutations never queue.
type Always struct{}

func (Always) Online() bool { return true }

// Client talks to a shoplist sync endpoint. Send satisfies store.Sender and
// Online satisfies store.Connectivity.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Send replays one pending op against the remote, retrying transient
// failures with exponential backoff before giving up. The remote endpoint
// is expected to apply ops idempotently; a failed flush re-sends ops that
// already went through.
func (c *Client) Send(ctx context.Context, op model.PendingOp) error {
	body, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("encode pending op: %w", err)
	}

	backoff := retry.WithMaxRetries(sendRetries, retry.NewExponential(sendBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ops", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Debug("send op failed", "kind", op.Kind, "error", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("remote returned %d", resp.StatusCode))
		default:
			return fmt.Errorf("remote rejected op: %d", resp.StatusCode)
		}
	})
}

// Online probes the remote with a short HEAD request. Any response, however
// unhappy, counts as reachable; only transport failure means offline.
func (c *Client) Online() bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
