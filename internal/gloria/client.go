// Package gloria talks to the GloriaFood ordering platform. Polling is
// fail-soft: any transport error, bad status or unknown payload degrades to
// "no orders this cycle" and is only logged. The scheduler is never
// disturbed by upstream weather.
package gloria

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"doucetentation/internal/monitoring"
)

const (
	// DefaultAPIURL is the GloriaFood order pop endpoint.
	DefaultAPIURL = "https://pos.gloriafood.com/pos/order/pop"
	// DefaultAPIVersion is the Glf-Api-Version header value.
	DefaultAPIVersion = "2"

	defaultTimeout = 15 * time.Second
)

// Client polls the upstream platform for pending orders.
type Client struct {
	apiURL     string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a poller. The timeout is applied to the whole request so
// a hung upstream call cannot stall later poll cycles.
func NewClient(apiURL, apiKey, apiVersion string, timeout time.Duration, log *zap.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Poll issues one request and returns the pending raw orders. A 204 means
// nothing is pending and is not an error. Poll never fails: every problem
// is logged and returns an empty list.
func (c *Client) Poll(ctx context.Context) []RawOrder {
	if c.apiKey == "" {
		c.log.Warn("gloriafood api key not configured, skipping poll")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, nil)
	if err != nil {
		c.log.Error("building gloriafood request", zap.Error(err))
		return nil
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Glf-Api-Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("gloriafood polling failed", zap.Error(err))
		monitoring.RecordPollFailure()
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			c.log.Error("reading gloriafood response", zap.Error(err))
			return nil
		}
		return ParseResponse(body)
	case http.StatusNoContent:
		return nil
	default:
		c.log.Warn("unexpected gloriafood status", zap.Int("status", resp.StatusCode))
		monitoring.RecordPollFailure()
		return nil
	}
}
