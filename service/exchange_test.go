package service

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"fintrack/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		assert.Equal(t, "/latest/EUR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","base_code":"EUR","rates":{"USD":1.08,"GBP":0.85,"EUR":1}}`))
	}))
}

func TestConvert(t *testing.T) {
	var hits int64
	srv := newRateServer(t, &hits)
	defer srv.Close()

	s := NewExchangeService(&config.ExchangeConfig{BaseURL: srv.URL, CacheTTLMinutes: 60})

	got, err := s.Convert(100, "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, "108", got.String())

	// same currency needs no lookup
	one, err := s.GetRate("USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, "1", one.String())

	// second conversion hits the cache
	_, err = s.Convert(50, "EUR", "GBP")
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	// unknown target currency
	_, err = s.GetRate("EUR", "XXX")
	assert.Error(t, err)
}

func TestConvertProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewExchangeService(&config.ExchangeConfig{BaseURL: srv.URL, CacheTTLMinutes: 60})
	_, err := s.Convert(100, "EUR", "USD")
	assert.Error(t, err)
}
