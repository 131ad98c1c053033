package coinbase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
}

func TestMarketsSortedCatalog(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "ETH-USD", "base_currency": "ETH", "quote_currency": "USD", "status": "online"},
			{"id": "BTC-USD", "base_currency": "BTC", "quote_currency": "USD", "status": "online"},
			{"id": "  ", "base_currency": "", "quote_currency": "", "status": "delisted"},
			{"id": "ADA-USD", "base_currency": "ADA", "quote_currency": "USD", "status": "online"}
		]`))
	}))

	markets, err := client.Markets(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"ADA-USD", "BTC-USD", "ETH-USD"}, markets)
}

func TestHistoricRatesParsesAndSortsAscending(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/BTC-USD/candles", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "60", q.Get("granularity"))
		require.Equal(t, "1970-01-01T00:16:40Z", q.Get("start"))
		require.Equal(t, "1970-01-01T01:00:00Z", q.Get("end"))

		// Newest-first wire order, ascending expected back.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1120, 9.1, 9.9, 9.2, 9.8, 120.5],
			[1060, 8.1, 8.9, 8.2, 8.8, 80.25],
			[1000, 7.1, 7.9, 7.2, 7.8, 40.0]
		]`))
	}))

	candles, err := client.HistoricRates(context.Background(), "BTC-USD", 1000, 3600, 60)
	require.NoError(t, err)
	require.Len(t, candles, 3)
	require.Equal(t, Candle{Time: 1000, Low: 7.1, High: 7.9, Open: 7.2, Close: 7.8, Volume: 40.0}, candles[0])
	require.EqualValues(t, 1060, candles[1].Time)
	require.EqualValues(t, 1120, candles[2].Time)
}

func TestHistoricRatesValidatesInput(t *testing.T) {
	client := NewClient()
	_, err := client.HistoricRates(context.Background(), "", 0, 3600, 60)
	require.Error(t, err)
	_, err = client.HistoricRates(context.Background(), "BTC-USD", 0, 3600, 0)
	require.Error(t, err)
}

func TestHistoricRatesShortCandleArray(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1000, 1.0, 2.0]]`))
	}))

	_, err := client.HistoricRates(context.Background(), "BTC-USD", 0, 3600, 60)
	require.Error(t, err)
	require.Contains(t, err.Error(), "3 fields")
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id": "BTC-USD"}]`))
	}))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.EqualValues(t, 3, calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "NotFound", http.StatusNotFound)
	}))

	_, err := client.HistoricRates(context.Background(), "NOPE-USD", 0, 3600, 60)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.EqualValues(t, 1, calls.Load())
}

func TestGetJSONExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := NewClient(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithMaxRetries(2),
	)
	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.EqualValues(t, 3, calls.Load())
}
