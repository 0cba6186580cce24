package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Quote is one price observation from a provider.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Exchange string          `json:"exchange"`
	Price    decimal.Decimal `json:"price"`
	AsOf     time.Time       `json:"asOf"`
	Source   string          `json:"source"`
}

// Oracle is the external market-data provider abstraction.
type Oracle interface {
	GetQuote(ctx context.Context, ticker, exchange string) (Quote, error)
}

// flexDecimal accepts JSON values that arrive as either a number or a
// string; the quote feed is not consistent about it.
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			return fmt.Errorf("empty price value")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("parse price %q: %w", s, err)
		}
		*f = flexDecimal(d)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexDecimal(decimal.NewFromFloat(num))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s as price", string(data))
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string       `json:"01. symbol"`
		Price         *flexDecimal `json:"05. price"`
		LatestTrading string       `json:"07. latest trading day"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// AlphaVantageClient fetches quotes from the Alpha Vantage GLOBAL_QUOTE
// endpoint, with a client-side request rate cap.
type AlphaVantageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*AlphaVantageClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *AlphaVantageClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *AlphaVantageClient) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second cap.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *AlphaVantageClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

func NewAlphaVantageClient(apiKey string, opts ...ClientOption) *AlphaVantageClient {
	c := &AlphaVantageClient{
		baseURL:    "https://www.alphavantage.co",
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuote fetches the current price for ticker on exchange. Symbols are
// sent as TICKER.EXCHANGE when an exchange is given.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, ticker, exchange string) (Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	symbol := ticker
	if exchange != "" {
		symbol = ticker + "." + exchange
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Quote{}, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var parsed globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrMalformedQuote, err)
	}

	switch {
	case parsed.Note != "":
		// Alpha Vantage reports quota exhaustion as a 200 with a Note body.
		return Quote{}, ErrRateLimited
	case parsed.ErrorMessage != "":
		return Quote{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	case parsed.GlobalQuote.Price == nil || parsed.GlobalQuote.Symbol == "":
		// Unknown symbols come back as an empty Global Quote object.
		return Quote{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	price := decimal.Decimal(*parsed.GlobalQuote.Price)
	if price.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: non-positive price for %s", ErrMalformedQuote, symbol)
	}

	asOf := time.Now().UTC()
	if parsed.GlobalQuote.LatestTrading != "" {
		if day, err := time.Parse("2006-01-02", parsed.GlobalQuote.LatestTrading); err == nil {
			asOf = day
		}
	}

	return Quote{
		Symbol:   ticker,
		Exchange: exchange,
		Price:    price,
		AsOf:     asOf,
		Source:   "alphavantage",
	}, nil
}
