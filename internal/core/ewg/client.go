package ewg

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/infrastructure/config"
	"ingredient-safety/internal/pkg/common"
)

const (
	cacheKeyPrefix = "ewg:"
	sourceName     = "ewg"
)

// Client EWG 爬蟲服務客戶端；任何失敗都記錄後視為沒有資料
type Client struct {
	client  *resty.Client
	enabled bool
	timeout time.Duration
	cache   cache.Store
}

// NewClient 創建爬蟲客戶端，store 為 nil 時不快取
func NewClient(cfg config.ScraperConfig, store cache.Store) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json, text/html")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		client:  client,
		enabled: cfg.Enabled && cfg.BaseURL != "",
		timeout: cfg.Timeout,
		cache:   store,
	}
}

// Enabled 是否會實際發出查詢
func (c *Client) Enabled() bool {
	return c.enabled
}

// Fetch 查詢單一成分，實作 safety.Remote
func (c *Client) Fetch(ctx context.Context, name string) (safety.Partial, bool) {
	if !c.enabled {
		return safety.Partial{}, false
	}

	query := strings.ToLower(strings.TrimSpace(name))
	key := cacheKeyPrefix + query

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			var listing Listing
			if err := common.ParseJSON(cached, &listing); err == nil {
				return listing.partial(), true
			}
			common.LogWarn("快取內容無法解析", zap.String("key", key))
		}
	}

	start := time.Now()
	listing, found, err := c.scrape(ctx, query)
	common.LogRemoteCall(sourceName, query, time.Since(start), err)
	if err != nil || !found {
		return safety.Partial{}, false
	}

	if c.cache != nil {
		if data, err := common.ToJSON(listing); err == nil {
			if err := c.cache.Set(ctx, key, data); err != nil {
				common.LogWarn("寫入快取失敗", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return listing.partial(), true
}

// scrape 呼叫爬蟲服務並依回應形式擷取欄位
func (c *Client) scrape(ctx context.Context, query string) (Listing, bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(scrapeRequest{Query: query, Source: sourceName}).
		Post("/scrape")
	if err != nil {
		return Listing{}, false, fmt.Errorf("failed to send request to scraper: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Listing{}, false, fmt.Errorf("scraper returned status %d", resp.StatusCode())
	}

	if strings.Contains(resp.Header().Get("Content-Type"), "text/html") {
		listing, ok := parseListingHTML(string(resp.Body()))
		return listing, ok, nil
	}

	var body scrapeResponse
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return Listing{}, false, fmt.Errorf("failed to parse scraper response: %w", err)
	}

	switch {
	case body.Data != nil:
		if len(*body.Data) == 0 {
			return Listing{}, false, nil
		}
		first := (*body.Data)[0]
		return Listing{
			ScoreText: string(first.Score),
			Concerns:  common.JoinNonEmpty(first.Concerns),
			Function:  strings.TrimSpace(first.Category),
		}, true, nil
	case body.HTML != nil:
		listing, ok := parseListingHTML(*body.HTML)
		return listing, ok, nil
	default:
		return Listing{}, false, nil
	}
}

// partial 轉為合併用的部分判斷，解析不出分數時分數欄位保持缺席
func (l Listing) partial() safety.Partial {
	p := safety.Partial{
		Function:  safety.SomeText(l.Function),
		Reason:    safety.SomeText(l.Concerns),
		CommonUse: safety.SomeText(l.Use),
	}
	if score, ok := ParseScore(l.ScoreText); ok {
		p.Score = safety.Some(score)
	}
	return p
}
