package ewg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/infrastructure/config"
)

func newScraper(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func scraperConfig(url string) config.ScraperConfig {
	return config.ScraperConfig{Enabled: true, BaseURL: url, Timeout: time.Second}
}

func TestFetch_Structured(t *testing.T) {
	srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scrape", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var req scrapeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "methylparaben", req.Query)
		assert.Equal(t, "ewg", req.Source)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"name":"Lotion","score":4,"concerns":["Irritation","Allergies"],"category":"Preservative"},{"score":"9"}]}`))
	})

	cfg := scraperConfig(srv.URL)
	cfg.APIKey = "secret"
	p, ok := NewClient(cfg, nil).Fetch(context.Background(), " Methylparaben ")
	require.True(t, ok)
	assert.Equal(t, 4, p.Score.Value)
	assert.True(t, p.Score.Valid)
	assert.Equal(t, "Irritation, Allergies", p.Reason.Value)
	assert.Equal(t, "Preservative", p.Function.Value)
	assert.False(t, p.CommonUse.Valid)
}

func TestFetch_EmptyDataIsNone(t *testing.T) {
	srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, ok := NewClient(scraperConfig(srv.URL), nil).Fetch(context.Background(), "water")
	assert.False(t, ok)
}

func TestFetch_HTMLFallback(t *testing.T) {
	srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"html": listingPage})
	})

	p, ok := NewClient(scraperConfig(srv.URL), nil).Fetch(context.Background(), "phenoxyethanol")
	require.True(t, ok)
	assert.Equal(t, 6, p.Score.Value)
	assert.Equal(t, "Preservative", p.Function.Value)
	assert.Equal(t, "Lotions", p.CommonUse.Value)
}

func TestFetch_RawHTMLBody(t *testing.T) {
	srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="product-tile"><span class="score">no rating yet</span></div>`))
	})

	p, ok := NewClient(scraperConfig(srv.URL), nil).Fetch(context.Background(), "retinol")
	require.True(t, ok)
	assert.False(t, p.Score.Valid, "unparseable score stays absent")
}

func TestFetch_FailuresBecomeNone(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, ok := NewClient(scraperConfig(srv.URL), nil).Fetch(context.Background(), "water")
		assert.False(t, ok)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":`))
		})
		_, ok := NewClient(scraperConfig(srv.URL), nil).Fetch(context.Background(), "water")
		assert.False(t, ok)
	})

	t.Run("timeout", func(t *testing.T) {
		srv, _ := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		cfg := scraperConfig(srv.URL)
		cfg.Timeout = 20 * time.Millisecond
		_, ok := NewClient(cfg, nil).Fetch(context.Background(), "water")
		assert.False(t, ok)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, ok := NewClient(scraperConfig("http://127.0.0.1:1"), nil).Fetch(context.Background(), "water")
		assert.False(t, ok)
	})
}

func TestFetch_Disabled(t *testing.T) {
	srv, calls := newScraper(t, func(w http.ResponseWriter, r *http.Request) {})

	cfg := scraperConfig(srv.URL)
	cfg.Enabled = false
	c := NewClient(cfg, nil)
	assert.False(t, c.Enabled())

	_, ok := c.Fetch(context.Background(), "water")
	assert.False(t, ok)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestFetch_CachesHitsOnly(t *testing.T) {
	srv, calls := newScraper(t, func(w http.ResponseWriter, r *http.Request) {
		var req scrapeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Query == "glycerin" {
			_, _ = w.Write([]byte(`{"data":[{"score":"2"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	store := cache.NewMemoryStore(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	t.Cleanup(func() { _ = store.Close() })
	c := NewClient(scraperConfig(srv.URL), store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, ok := c.Fetch(ctx, "glycerin")
		require.True(t, ok)
		assert.Equal(t, 2, p.Score.Value)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	for i := 0; i < 2; i++ {
		_, ok := c.Fetch(ctx, "unknownium")
		assert.False(t, ok)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}
