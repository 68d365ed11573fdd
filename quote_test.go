package investor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "1.23456", want: "1234"},
		{raw: "0.1", want: "100"},
		{raw: "221.4500", want: "221450"},
		{raw: "0.00001", want: "0"},
		{raw: "0", want: "0"},
		{raw: "-3.5", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizePrice(decimal.RequireFromString(tt.raw))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

// quoteServer serves body with status for every GLOBAL_QUOTE request.
func quoteServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAlphaVantage_Price(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      string
		wantFetch bool
	}{
		{
			name:   "string price",
			status: http.StatusOK,
			body:   `{"Global Quote": {"01. symbol": "AAPL", "05. price": "1.23456"}}`,
			want:   "1234",
		},
		{
			name:   "number price",
			status: http.StatusOK,
			body:   `{"Global Quote": {"05. price": 0.1}}`,
			want:   "100",
		},
		{
			name:   "null price",
			status: http.StatusOK,
			body:   `{"Global Quote": {"05. price": null}}`,
			want:   "0",
		},
		{
			name:   "missing price",
			status: http.StatusOK,
			body:   `{"Global Quote": {}}`,
			want:   "0",
		},
		{
			name:   "empty price",
			status: http.StatusOK,
			body:   `{"Global Quote": {"05. price": ""}}`,
			want:   "0",
		},
		{
			name:      "garbage price",
			status:    http.StatusOK,
			body:      `{"Global Quote": {"05. price": "n/a"}}`,
			wantFetch: true,
		},
		{
			name:      "missing global quote",
			status:    http.StatusOK,
			body:      `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`,
			wantFetch: true,
		},
		{
			name:      "global quote is not an object",
			status:    http.StatusOK,
			body:      `{"Global Quote": "AAPL"}`,
			wantFetch: true,
		},
		{
			name:      "not json",
			status:    http.StatusOK,
			body:      `<html>`,
			wantFetch: true,
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      `{}`,
			wantFetch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := quoteServer(t, tt.status, tt.body)
			av := NewAlphaVantage("demo", srv.URL, time.Second)

			got, err := av.Price(context.Background(), "AAPL")
			if tt.wantFetch {
				var fetch *QuoteFetchError
				require.ErrorAs(t, err, &fetch)
				assert.Equal(t, Symbol("AAPL"), fetch.Symbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAlphaVantage_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	av := NewAlphaVantage("demo", srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := av.Price(context.Background(), "AAPL")

	var fetch *QuoteFetchError
	require.ErrorAs(t, err, &fetch)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewAlphaVantage_Defaults(t *testing.T) {
	av := NewAlphaVantage("key", "", 0)
	assert.Equal(t, DefaultQuoteURL, av.base)
	assert.Equal(t, DefaultQuoteTimeout, av.timeout)

	av = NewAlphaVantage("key", "http://localhost:1234", time.Second)
	assert.Equal(t, "http://localhost:1234/", av.base)
}
