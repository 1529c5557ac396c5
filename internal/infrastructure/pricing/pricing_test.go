package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"SneakerShopBot/internal/config"
	"SneakerShopBot/internal/infrastructure/storage/cache"
	"SneakerShopBot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T, matchPage string, requests *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalog/product", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		switch r.URL.Query().Get("page") {
		case "2":
			http.Error(w, "boom", http.StatusInternalServerError)
		case matchPage:
			writeJSON(w, map[string]any{"items": []map[string]any{
				{"name": "Air X Low", "spuId": 1},
				{"name": r.URL.Query().Get("search"), "spuId": 77},
			}})
		default:
			writeJSON(w, map[string]any{"items": []map[string]any{{"name": "other", "spuId": 5}}})
		}
	})
	mux.HandleFunc("/api/catalog/product/77", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		writeJSON(w, map[string]any{"skus": []map[string]any{
			{"size": map[string]any{"ru": "43"}, "priceV2": map[string]any{"price": 15050}},
			{"size": map[string]any{"ru": "41,5"}, "priceV2": map[string]any{"price": 12000}},
			{"size": map[string]any{"ru": "one size"}, "priceV2": map[string]any{"price": 9000}},
			{"size": map[string]any{"ru": 42}, "priceV2": map[string]any{"price": 0}},
			{"size": map[string]any{"ru": 44}, "priceV2": map[string]any{"price": 3000}},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, c cache.Cache) *Client {
	t.Helper()
	client := NewClient(config.PriceLookupConfig{
		BaseURL:           baseURL,
		Pages:             9,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		DiscountPercent:   10,
		CacheTTL:          time.Hour,
	}, c)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestLookupPrices(t *testing.T) {
	var requests int32
	srv := newServer(t, "6", &requests)
	client := newTestClient(t, srv.URL, nil)

	prices, err := client.LookupPrices(context.Background(), "Air X", 5000)
	require.NoError(t, err)

	assert.Equal(t, []model.SizePrice{
		{Size: 41.5, Price: 10800},
		{Size: 43, Price: 13600},
		{Size: 44, Price: 5000},
	}, prices)
}

func TestLookupPricesNotFound(t *testing.T) {
	var requests int32
	srv := newServer(t, "never", &requests)
	client := newTestClient(t, srv.URL, nil)

	_, err := client.LookupPrices(context.Background(), "Air X", 0)
	assert.ErrorIs(t, err, ErrNoPrices)
}

func TestLookupPricesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.PriceLookupConfig{
		BaseURL: srv.URL,
		Pages:   3,
		Timeout: 100 * time.Millisecond,
	}, nil)
	t.Cleanup(func() { _ = client.Close() })

	start := time.Now()
	_, err := client.LookupPrices(context.Background(), "Air X", 0)
	assert.ErrorIs(t, err, ErrNoPrices)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLookupPricesUsesCache(t *testing.T) {
	var requests int32
	srv := newServer(t, "1", &requests)
	fileCache := cache.NewFileCache(filepath.Join(t.TempDir(), "prices.json"))
	client := newTestClient(t, srv.URL, fileCache)

	first, err := client.LookupPrices(context.Background(), "Air X", 0)
	require.NoError(t, err)

	srv.Close()
	second, err := client.LookupPrices(context.Background(), "Air X", 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		price   float64
		percent float64
		want    int
	}{
		{10000, 0, 10000},
		{10001, 0, 10100},
		{15050, 10, 13600},
		{12000, 10, 10800},
		{99, 50, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DiscountedPrice(tt.price, tt.percent))
	}
}

func TestCancelledLookupSendsNoRequests(t *testing.T) {
	var requests int32
	srv := newServer(t, "6", &requests)
	client := newTestClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.searchPage(ctx, "Air X", 6)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = client.details(ctx, 77)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&requests))
}
