// Package pricing looks up live per-size prices of a product in an external
// catalog. The lookup is best effort: any failure ends in ErrNoPrices.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"SneakerShopBot/internal/config"
	"SneakerShopBot/internal/infrastructure/storage/cache"
	"SneakerShopBot/internal/model"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

var ErrNoPrices = errors.New("no prices found")

type searchResponse struct {
	Items []struct {
		Name  string `json:"name"`
		SpuId int64  `json:"spuId"`
	} `json:"items"`
}

type detailResponse struct {
	Skus []struct {
		Size struct {
			Ru json.RawMessage `json:"ru"`
		} `json:"size"`
		PriceV2 struct {
			Price float64 `json:"price"`
		} `json:"priceV2"`
	} `json:"skus"`
}

type Client struct {
	cfg        config.PriceLookupConfig
	httpClient *resty.Client
	rl         ratelimit.Limiter
	cache      cache.Cache
}

// NewClient builds the lookup client. cache may be nil.
func NewClient(cfg config.PriceLookupConfig, c cache.Cache) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "application/json")

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		rl:         ratelimit.New(rps),
		cache:      c,
	}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

// LookupPrices returns the prices by size of the product called name, with
// the configured discount applied. No price is shown below expectedMin.
func (c *Client) LookupPrices(ctx context.Context, name string, expectedMin float64) ([]model.SizePrice, error) {
	raw, err := c.cached(ctx, name)
	if err != nil {
		raw, err = c.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		c.store(ctx, name, raw)
	}

	floor := int(math.Ceil(expectedMin))
	prices := make([]model.SizePrice, 0, len(raw))
	for _, sp := range raw {
		price := DiscountedPrice(float64(sp.Price), c.cfg.DiscountPercent)
		if price < floor {
			price = floor
		}
		prices = append(prices, model.SizePrice{Size: sp.Size, Price: price})
	}
	return prices, nil
}

// fetch searches all pages at once. The first page that leads to a non-empty
// price list wins; the requests still in flight are cancelled and not waited
// for.
func (c *Client) fetch(ctx context.Context, name string) ([]model.SizePrice, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	found := make(chan []model.SizePrice, 1)
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	for page := 1; page <= c.cfg.Pages; page++ {
		g.Go(func() error {
			spuId, err := c.searchPage(gctx, name, page)
			if err != nil {
				log.Debugf("Price search page %d for %q: %v", page, name, err)
				return nil
			}
			if spuId == 0 {
				return nil
			}

			prices, err := c.details(gctx, spuId)
			if err != nil {
				log.Debugf("Price details %d for %q: %v", spuId, name, err)
				return nil
			}
			if len(prices) == 0 {
				return nil
			}

			select {
			case found <- prices:
			default:
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case prices := <-found:
		return prices, nil
	case <-done:
		select {
		case prices := <-found:
			return prices, nil
		default:
			return nil, ErrNoPrices
		}
	case <-ctx.Done():
		log.Warnf("Price lookup for %q timed out", name)
		return nil, ErrNoPrices
	}
}

func (c *Client) searchPage(ctx context.Context, name string, page int) (int64, error) {
	c.rl.Take()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var result searchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("search", name).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&result).
		Get("/api/catalog/product")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch search page: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	for _, item := range result.Items {
		if item.Name == name {
			return item.SpuId, nil
		}
	}
	return 0, nil
}

// details returns the prices by size, sorted by size. Entries with an
// unparsable size or a zero price are skipped.
func (c *Client) details(ctx context.Context, spuId int64) ([]model.SizePrice, error) {
	c.rl.Take()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result detailResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/api/catalog/product/%d", spuId))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product details: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	bySize := make(map[float64]int)
	for _, sku := range result.Skus {
		size, ok := parseSize(sku.Size.Ru)
		if !ok || sku.PriceV2.Price == 0 {
			continue
		}
		bySize[size] = int(sku.PriceV2.Price)
	}

	prices := make([]model.SizePrice, 0, len(bySize))
	for size, price := range bySize {
		prices = append(prices, model.SizePrice{Size: size, Price: price})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Size < prices[j].Size })
	return prices, nil
}

// parseSize accepts the size as a JSON number or a numeric string.
func parseSize(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	s = strings.Replace(s, ",", ".", 1)
	size, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
		return 0, false
	}
	return size, true
}

// DiscountedPrice applies percent off price and rounds up to the next 100.
func DiscountedPrice(price, percent float64) int {
	discounted := price * (1 - percent/100)
	return int(math.Ceil(discounted/100) * 100)
}

func cacheKey(name string) string {
	return "prices:" + name
}

func (c *Client) cached(ctx context.Context, name string) ([]model.SizePrice, error) {
	if c.cache == nil {
		return nil, errors.New("cache disabled")
	}
	value, ok, err := c.cache.Get(ctx, cacheKey(name))
	if err != nil {
		log.Warnf("Error reading price cache: %v", err)
		return nil, err
	}
	if !ok {
		return nil, errors.New("cache miss")
	}

	var prices []model.SizePrice
	if err := json.Unmarshal(value, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (c *Client) store(ctx context.Context, name string, prices []model.SizePrice) {
	if c.cache == nil {
		return
	}
	value, err := json.Marshal(prices)
	if err != nil {
		log.Warnf("Error encoding prices for cache: %v", err)
		return
	}
	if err := c.cache.Set(ctx, cacheKey(name), value, c.cfg.CacheTTL); err != nil {
		log.Warnf("Error writing price cache: %v", err)
	}
}
