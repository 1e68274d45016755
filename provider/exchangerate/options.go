package exchangerate

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Option func(c *Client)

// WithBaseURL specifies the API base URL (without the trailing API key segment).
// Defaults to DefaultBaseURL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient specifies the HTTP client used for API calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout specifies the per-request timeout. The timeout is set on a copy
// of the HTTP client, so a shared client (ex. http.DefaultClient) is left untouched
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.client
		hc.Timeout = timeout

		c.client = &hc
	}
}

// WithCache specifies the live rate cache. Sharing a cache between
// clients shares the fetched rates
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger specifies the logger for the client
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHistoryDays specifies how many past days HistoricalRates covers.
// Defaults to 5
func WithHistoryDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.historyDays = days
		}
	}
}

// WithClock specifies the time source used to compute historical dates
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}
