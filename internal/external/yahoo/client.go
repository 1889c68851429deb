package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/httputil"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// DefaultBaseURL is the public chart API host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoData is returned when the chart API has no bars for a symbol
var ErrNoData = errors.New("yahoo: no data")

// Client fetches OHLCV history from the Yahoo Finance chart API
// ⭐ SSOT: Yahoo chart API calls happen only in this client
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new chart client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.Module("yahoo"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch implements contracts.SeriesProvider
func (c *Client) Fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	params := url.Values{}
	params.Set("range", string(period))
	params.Set("interval", string(interval))
	params.Set("includePrePost", "false")
	params.Set("events", "div,splits")

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return contracts.PriceSeries{}, fmt.Errorf("%w: %s", ErrNoData, ticker)
		}
		return contracts.PriceSeries{}, fmt.Errorf("fetch chart %s: %w", ticker, err)
	}

	series, err := parseChart(ticker, interval, body)
	if err != nil {
		return contracts.PriceSeries{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"period":   period,
		"interval": interval,
		"bars":     series.Len(),
	}).Debug("Fetched chart")

	return series, nil
}
