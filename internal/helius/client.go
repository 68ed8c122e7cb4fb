// Package helius wraps the Helius enhanced transactions API and log
// subscription WebSocket.
package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/observability"
	"github.com/gabrxgomes/ShadowStats/internal/registry"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0

	// DefaultRPS stays under the free-tier limit.
	DefaultRPS = 10
)

// Client fetches enriched wallet transaction history over HTTP.
type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	lookup      func(mint string) domain.AssetInfo
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithRateLimit sets the client-side request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLookup sets the asset metadata resolver used to convert provider token
// amounts back to raw units.
func WithLookup(lookup func(mint string) domain.AssetInfo) ClientOption {
	return func(c *Client) {
		c.lookup = lookup
	}
}

// NewClient creates a Helius API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRPS), 1),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		lookup:      registry.Lookup,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TransactionsOpts controls history pagination.
type TransactionsOpts struct {
	Limit  int
	Before string // fetch transactions older than this signature
}

// heliusTransaction is the provider's enriched transaction shape. Token
// amounts arrive already scaled to UI units.
type heliusTransaction struct {
	Signature    string `json:"signature"`
	Timestamp    int64  `json:"timestamp"`
	Instructions []struct {
		ProgramID string   `json:"programId"`
		Accounts  []string `json:"accounts"`
	} `json:"instructions"`
	TokenTransfers []struct {
		FromUserAccount string  `json:"fromUserAccount"`
		ToUserAccount   string  `json:"toUserAccount"`
		TokenAmount     float64 `json:"tokenAmount"`
		Mint            string  `json:"mint"`
	} `json:"tokenTransfers"`
}

// Transactions fetches the wallet's enriched transaction history, newest
// first, and converts it to the internal raw form.
func (c *Client) Transactions(ctx context.Context, wallet string, opts *TransactionsOpts) ([]domain.RawTransaction, error) {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	if opts != nil {
		if opts.Limit > 0 {
			q.Set("limit", fmt.Sprintf("%d", opts.Limit))
		}
		if opts.Before != "" {
			q.Set("before", opts.Before)
		}
	}
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.baseURL, wallet, q.Encode())

	var raw []heliusTransaction
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", wallet, err)
	}

	txs := make([]domain.RawTransaction, 0, len(raw))
	for _, h := range raw {
		txs = append(txs, c.convert(h))
	}
	return txs, nil
}

// get performs a GET with retries and exponential backoff. Rate limiting and
// server errors are retried; client errors are not.
func (c *Client) get(ctx context.Context, endpoint string, result interface{}) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			observability.RecordHistoryRequest("error", time.Since(start).Seconds())
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}
		observability.RecordHistoryRequest(strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// Client errors are not retried
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// convert maps a provider transaction to the internal raw form, rescaling UI
// token amounts to raw units using registry decimals.
func (c *Client) convert(h heliusTransaction) domain.RawTransaction {
	tx := domain.RawTransaction{
		Signature: h.Signature,
		Timestamp: h.Timestamp,
	}

	for _, in := range h.Instructions {
		tx.Instructions = append(tx.Instructions, domain.Instruction{
			ProgramID: in.ProgramID,
			Accounts:  in.Accounts,
		})
	}

	for _, tr := range h.TokenTransfers {
		info := c.lookup(tr.Mint)
		raw := uint64(math.Round(tr.TokenAmount * math.Pow10(info.Decimals)))
		tx.TokenTransfers = append(tx.TokenTransfers, domain.TokenTransfer{
			FromUserAccount: tr.FromUserAccount,
			ToUserAccount:   tr.ToUserAccount,
			Amount:          raw,
			Mint:            tr.Mint,
		})
	}

	return tx
}
