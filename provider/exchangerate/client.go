//nolint:tagliatelle // exchangerate-api uses snake case
package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sig-0/currconv/provider"
	"github.com/sig-0/currconv/storage/types"
)

const (
	// DefaultBaseURL is the exchangerate-api v6 endpoint root
	DefaultBaseURL = "https://v6.exchangerate-api.com/v6"

	// DefaultHistoryDays is the number of past days covered by HistoricalRates
	DefaultHistoryDays = 5

	defaultTimeout = 30 * time.Second

	resultSuccess = "success"

	// maxErrorBody caps how much of an error response ends up in the error message
	maxErrorBody = 512
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrRequestFailed    = errors.New("request failed")
	ErrCurrencyNotFound = errors.New("currency not found in response")
	ErrInvalidRate      = errors.New("invalid rate")
)

var _ provider.Provider = (*Client)(nil)

// response is the latest / history response body
type response struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Client is the exchangerate-api provider
type Client struct {
	client *http.Client
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time

	baseURL     string
	apiKey      string
	historyDays int
}

// NewClient creates a new exchangerate-api client using the given API key
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		cache:       NewCache(DefaultCacheTTL),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		historyDays: DefaultHistoryDays,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LiveRate returns the latest rate for the pair, served from the cache when fresh
func (c *Client) LiveRate(ctx context.Context, from, to types.Currency) (float64, error) {
	if rate, ok := c.cache.Get(from, to); ok {
		c.logger.Debug(
			"live rate served from cache",
			"from", from,
			"to", to,
			"rate", rate,
		)

		return rate, nil
	}

	endpoint := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, from)

	rate, err := c.fetchRate(ctx, endpoint, to)
	if err != nil {
		c.logger.Error(
			"error fetching live rate",
			"from", from,
			"to", to,
			"err", err,
		)

		return 0, fmt.Errorf("unable to fetch live rate: %w", err)
	}

	c.cache.Put(from, to, rate)

	return rate, nil
}

// HistoricalRates fetches the rate for each of the past days, one request per day.
// A failed day does not abort the others, it yields a point with a nil rate
func (c *Client) HistoricalRates(ctx context.Context, from, to types.Currency) []types.HistoricalRate {
	var (
		today  = types.Today(c.now())
		points = make([]types.HistoricalRate, 0, c.historyDays)
	)

	for i := 1; i <= c.historyDays; i++ {
		point := types.HistoricalRate{
			Date: today.AddDate(0, 0, -i),
		}

		rate, err := c.historicalRate(ctx, from, to, point.Date)
		if err != nil {
			c.logger.Warn(
				"error fetching historical rate",
				"from", from,
				"to", to,
				"date", point.Date.Format(types.DateLayout),
				"err", err,
			)
		} else {
			point.Rate = &rate
		}

		points = append(points, point)
	}

	return points
}

// historicalRate fetches the rate for a single date
func (c *Client) historicalRate(
	ctx context.Context,
	from, to types.Currency,
	date time.Time,
) (float64, error) {
	day := date.Format(types.DateLayout)

	q := url.Values{}
	q.Set("start_date", day)
	q.Set("end_date", day)

	endpoint := fmt.Sprintf("%s/%s/history/%s?%s", c.baseURL, c.apiKey, from, q.Encode())

	return c.fetchRate(ctx, endpoint, to)
}

// fetchRate executes the GET request and extracts the target rate
func (c *Client) fetchRate(ctx context.Context, endpoint string, to types.Currency) (float64, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	// Execute the request
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("unable to execute GET request: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort

		return 0, fmt.Errorf(
			"%w: %d - %s",
			ErrUnexpectedStatus,
			resp.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	var data response
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("unable to decode response: %w", err)
	}

	if data.Result != "" && data.Result != resultSuccess {
		return 0, fmt.Errorf("%w: %s", ErrRequestFailed, data.ErrorType)
	}

	rate, ok := data.ConversionRates[to.String()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCurrencyNotFound, to)
	}

	if rate <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	return rate, nil
}

// redactKey strips the API key from the request URL embedded in transport errors.
// The error chain is left intact
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error

	if apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}

	urlErr.URL = strings.ReplaceAll(urlErr.URL, apiKey, "***")

	return err
}
