// Package fetch pulls farm snapshots from the game API. Requests go through
// retryablehttp for transient-failure retries and a rate limiter so config
// mistakes can never hammer the API.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	logx "farmwatch/pkg/logx"
)

type Config struct {
	BaseURL string
	FarmID  string
	APIKey  string
	// Timeout bounds one attempt, not the whole retry chain. Defaults 20s.
	Timeout time.Duration
	// RatePerSec caps outgoing requests. Defaults to 1.
	RatePerSec int
	// Retries is the retry count on transient failures. Defaults to 3.
	Retries int
}

type Client struct {
	log     logx.Logger
	http    *retryablehttp.Client
	limiter *rate.Limiter

	mu  sync.Mutex
	cfg Config
}

func New(cfg Config, log logx.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &Client{
		log:     log,
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		cfg:     cfg,
	}
}

// Apply updates credentials and endpoint on a config reload. The retry
// policy and limiter keep their construction-time settings.
func (c *Client) Apply(cfg Config) {
	c.mu.Lock()
	if cfg.BaseURL != "" {
		c.cfg.BaseURL = cfg.BaseURL
	}
	c.cfg.FarmID = cfg.FarmID
	c.cfg.APIKey = cfg.APIKey
	c.mu.Unlock()
}

// Snapshot fetches the raw farm document. Non-2xx responses and transport
// failures come back as errors; callers treat them all as transient.
func (c *Client) Snapshot(ctx context.Context) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.FarmID
	apiKey := c.cfg.APIKey
	c.mu.Unlock()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	c.log.Debug("snapshot fetched",
		logx.Int("bytes", len(body)),
		logx.Duration("took", time.Since(start)))
	return body, nil
}
