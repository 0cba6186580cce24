package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAlphaVantageClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestGetQuoteParsesStringPrice(t *testing.T) {
	var gotSymbol string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL.NASDAQ", "05. price": "189.4300", "07. latest trading day": "2026-08-28"}}`))
	})

	quote, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL.NASDAQ", gotSymbol, "symbol sent as TICKER.EXCHANGE")
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "NASDAQ", quote.Exchange)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("189.43")), "price %s", quote.Price)
	assert.Equal(t, "alphavantage", quote.Source)
	assert.Equal(t, 2026, quote.AsOf.Year())
}

func TestGetQuoteParsesNumericPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"01. symbol": "MSFT", "05. price": 415.5}}`))
	})

	quote, err := client.GetQuote(context.Background(), "MSFT", "")
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("415.5")))
}

func TestGetQuoteOmitsExchangeSuffixWhenEmpty(t *testing.T) {
	var gotSymbol string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"Global Quote": {"01. symbol": "MSFT", "05. price": "1"}}`))
	})

	_, err := client.GetQuote(context.Background(), "MSFT", "")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", gotSymbol)
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	// Alpha Vantage answers unknown symbols with an empty Global Quote.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	})

	_, err := client.GetQuote(context.Background(), "NOPE", "NSE")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestGetQuoteErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := client.GetQuote(context.Background(), "NOPE", "NSE")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestGetQuoteRateLimitNote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGetQuoteHTTPTooManyRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGetQuoteMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrMalformedQuote)
}

func TestGetQuoteRejectsUnparseablePrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "N/A"}}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrMalformedQuote)
}

func TestGetQuoteServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewAlphaVantageClient("test-key", WithBaseURL(url))
	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestGetQuoteServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetQuote(context.Background(), "AAPL", "NASDAQ")
	assert.ErrorIs(t, err, ErrUnreachable)
}
