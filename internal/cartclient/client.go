package cartclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/distrifone/tracking-backend/internal/dto"
	"github.com/distrifone/tracking-backend/internal/shared"
)

// State of one fetch cycle. Loading stays true across retry waits; callers
// must not treat a retry wait as idle.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateRetryWait  State = "retry_wait"
	StateDone       State = "done"
)

// Client fetches cart details from the tracking API with bounded automatic
// retry. Server-side and network failures are retried up to the attempt
// budget with a fixed backoff; client errors are surfaced immediately.
type Client struct {
	baseURL string
	http    *http.Client
	backoff shared.BackoffConfig
	logger  *slog.Logger

	mu      sync.RWMutex
	state   State
	loading bool
}

func New(baseURL string, backoff shared.BackoffConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		backoff: normalizeBackoff(backoff),
		logger:  logger,
		state:   StateIdle,
	}
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// FetchCart retrieves the cart snapshot for one session. The context cancels
// the in-flight request as well as any retry wait.
func (c *Client) FetchCart(ctx context.Context, sessionID string) (*dto.CartSnapshotResponse, error) {
	defer c.setState(StateDone, false)

	var lastErr error
	for attempt := 1; attempt <= c.backoff.MaxAttempts; attempt++ {
		c.setState(StateAttempting, true)

		snap, retryable, err := c.attempt(ctx, sessionID)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if attempt == c.backoff.MaxAttempts {
			break
		}

		c.logger.Warn("cart fetch failed, retrying",
			"session_id", sessionID, "attempt", attempt, "error", err)
		c.setState(StateRetryWait, true)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff.Initial):
		}
	}

	return nil, lastErr
}

// attempt reports whether a failure is worth retrying: only transport errors
// and 5xx responses are.
func (c *Client) attempt(ctx context.Context, sessionID string) (*dto.CartSnapshotResponse, bool, error) {
	url := fmt.Sprintf("%s/v1/visits/%s/cart", c.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch cart: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("cart fetch failed with status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: no cart for session %s", shared.ErrNotFound, sessionID)
	case resp.StatusCode >= 400:
		var apiErr dto.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return nil, false, fmt.Errorf("cart fetch rejected: %s", apiErr.Error)
		}
		return nil, false, fmt.Errorf("cart fetch rejected with status %d", resp.StatusCode)
	}

	var body dto.CartDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode cart response: %w", err)
	}
	if body.Cart == nil {
		return nil, false, fmt.Errorf("cart response missing cart for session %s", sessionID)
	}
	return body.Cart, false, nil
}

func (c *Client) setState(state State, loading bool) {
	c.mu.Lock()
	c.state = state
	c.loading = loading
	c.mu.Unlock()
}

func normalizeBackoff(cfg shared.BackoffConfig) shared.BackoffConfig {
	if cfg.Initial <= 0 {
		cfg.Initial = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	return cfg
}
