package coingecko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/coinpulse/internal/logger"
)

// ErrNetwork covers transport failures and non-2xx upstream responses.
var ErrNetwork = errors.New("network error")

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	userAgent      = "coinpulse/1.0"
	maxErrorBody   = 512
)

// Fetcher returns the raw body served at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Name() string
}

// HTTPFetcher implements Fetcher with a plain http.Client.
type HTTPFetcher struct {
	Client *http.Client
	APIKey string
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
// apiKey is optional and sent as x-cg-pro-api-key.
func NewHTTPFetcher(timeout time.Duration, apiKey string) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: timeout},
		APIKey: apiKey,
	}
}

func (f *HTTPFetcher) Name() string { return "coingecko" }

// Fetch performs a GET and returns the whole body. No retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if f.APIKey != "" {
		req.Header.Set("x-cg-pro-api-key", f.APIKey)
	}

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrNetwork, resp.StatusCode, strings.TrimSpace(snippet))
	}

	logger.L().Debug().Str("url", u).Int("status", resp.StatusCode).Int("bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("fetched")
	return body, nil
}

// MarketChartRangeURL builds the market_chart/range request for a coin
// between two Unix timestamps (seconds).
func MarketChartRangeURL(baseURL, coinID, currency string, from, to int64) string {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))
	return fmt.Sprintf("%s/coins/%s/market_chart/range?%s",
		strings.TrimSuffix(baseURL, "/"), url.PathEscape(coinID), q.Encode())
}
