package keepa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("keepa config invalid")
	ErrRequestFailed   = errors.New("keepa request failed")
	ErrResponseInvalid = errors.New("keepa response invalid")
	ErrTokensDrained   = errors.New("keepa tokens drained")
	ErrNoHistory       = errors.New("keepa has no history for asin")
)

// Keepa csv array indices we consume.
const (
	csvAmazonPrice = 0
	csvSalesRank   = 3
)

// Config holds the Keepa product API settings.
type Config struct {
	BaseURL         string  `json:"base_url"`
	APIKey          string  `json:"api_key"`
	Domain          int     `json:"domain"` // 1 = amazon.com
	TokensPerMinute int     `json:"tokens_per_minute"`
	CostPerToken    float64 `json:"cost_per_token"`
	TimeoutMS       int     `json:"timeout_ms"`
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BaseURL == "" {
		c.BaseURL = "https://api.keepa.com"
	}
	if c.Domain <= 0 {
		c.Domain = 1
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 20000
	}
}

// ValidateConfig checks the required settings.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	return nil
}

// Client wraps the Keepa product endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient normalizes and validates the config, then builds a client.
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}, nil
}

// History is the decoded signal set for one ASIN.
type History struct {
	ASIN         string
	CurrentPrice float64
	CurrentBSR   int
	PriceHistory []float64
	BSRHistory   []int
	Rating       float64
	ReviewCount  int
}

type productResponse struct {
	TokensLeft int `json:"tokensLeft"`
	Products   []struct {
		ASIN             string    `json:"asin"`
		CSV              [][]int64 `json:"csv"`
		Rating           int       `json:"rating"` // rating * 10
		ReviewCount      int       `json:"reviewCount"`
		SalesRankDrops30 int       `json:"salesRankDrops30"`
	} `json:"products"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// History fetches and decodes price/BSR history for one ASIN.
func (c *Client) History(ctx context.Context, asin string) (*History, error) {
	if strings.TrimSpace(asin) == "" {
		return nil, fmt.Errorf("%w: empty asin", ErrConfigInvalid)
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("domain", strconv.Itoa(c.cfg.Domain))
	params.Set("asin", asin)
	params.Set("stats", "90")

	data, err := c.get(ctx, "/product?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp productResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, resp.Error.Message)
	}
	if resp.TokensLeft < 0 {
		return nil, ErrTokensDrained
	}
	if len(resp.Products) == 0 {
		return nil, ErrNoHistory
	}

	product := resp.Products[0]
	history := &History{
		ASIN:        product.ASIN,
		Rating:      float64(product.Rating) / 10,
		ReviewCount: product.ReviewCount,
	}
	if len(product.CSV) > csvAmazonPrice {
		history.PriceHistory = decodePrices(product.CSV[csvAmazonPrice])
	}
	if len(product.CSV) > csvSalesRank {
		history.BSRHistory = decodeRanks(product.CSV[csvSalesRank])
	}
	if len(history.PriceHistory) > 0 {
		history.CurrentPrice = history.PriceHistory[len(history.PriceHistory)-1]
	}
	if len(history.BSRHistory) > 0 {
		history.CurrentBSR = history.BSRHistory[len(history.BSRHistory)-1]
	}
	if len(history.PriceHistory) == 0 && len(history.BSRHistory) == 0 {
		return nil, ErrNoHistory
	}
	return history, nil
}

// EstimateCost returns the dollar cost of n lookups.
func (c *Client) EstimateCost(requests int) float64 {
	if requests <= 0 {
		return 0
	}
	return float64(requests) * c.cfg.CostPerToken
}

// TokensPerMinute exposes the static plan limit for UI display.
func (c *Client) TokensPerMinute() int {
	return c.cfg.TokensPerMinute
}

// decodePrices unpacks a keepa csv array: alternating [time, value]
// pairs, prices in cents, -1 marking gaps.
func decodePrices(csv []int64) []float64 {
	var prices []float64
	for i := 1; i < len(csv); i += 2 {
		if csv[i] < 0 {
			continue
		}
		prices = append(prices, float64(csv[i])/100)
	}
	return prices
}

// decodeRanks unpacks a keepa sales rank csv array.
func decodeRanks(csv []int64) []int {
	var ranks []int
	for i := 1; i < len(csv); i += 2 {
		if csv[i] < 0 {
			continue
		}
		ranks = append(ranks, int(csv[i]))
	}
	return ranks
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrTokensDrained
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", ErrRequestFailed, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
