package rainforest

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
	ErrConfigInvalid   = errors.New("rainforest config invalid")
	ErrRequestFailed   = errors.New("rainforest request failed")
	ErrResponseInvalid = errors.New("rainforest response invalid")
	ErrQuotaExceeded   = errors.New("rainforest quota exceeded")
)

// Config holds the Rainforest product API settings. TokensPerMinute
// and CostPerToken are static plan values used only for estimation;
// the upstream enforces the real limits.
type Config struct {
	BaseURL         string  `json:"base_url"`
	APIKey          string  `json:"api_key"`
	TokensPerMinute int     `json:"tokens_per_minute"`
	CostPerToken    float64 `json:"cost_per_token"`
	TimeoutMS       int     `json:"timeout_ms"`
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BaseURL == "" {
		c.BaseURL = "https://api.rainforestapi.com"
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

// Client wraps the Rainforest search endpoint.
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

// SearchInput is one catalog search request.
type SearchInput struct {
	Term     string
	Category string
	Page     int
}

// SearchProduct is one search hit in our own shape.
type SearchProduct struct {
	ASIN        string
	Title       string
	Brand       string
	Category    string
	Price       float64
	Rating      float64
	ReviewCount int
	IsPrime     bool
	Image       string
}

// SearchResult is a page of search hits.
type SearchResult struct {
	Products     []SearchProduct
	TotalResults int
	Page         int
}

type searchResponse struct {
	RequestInfo struct {
		Success          bool   `json:"success"`
		CreditsUsed      int    `json:"credits_used"`
		CreditsRemaining int    `json:"credits_remaining"`
		Message          string `json:"message"`
	} `json:"request_info"`
	SearchResults []struct {
		ASIN         string  `json:"asin"`
		Title        string  `json:"title"`
		Brand        string  `json:"brand"`
		Image        string  `json:"image"`
		IsPrime      bool    `json:"is_prime"`
		Rating       float64 `json:"rating"`
		RatingsTotal int     `json:"ratings_total"`
		Price        struct {
			Value float64 `json:"value"`
		} `json:"price"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	} `json:"search_results"`
	Pagination struct {
		TotalResults int `json:"total_results"`
		CurrentPage  int `json:"current_page"`
	} `json:"pagination"`
}

// Search runs one search page against amazon.com.
func (c *Client) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if strings.TrimSpace(input.Term) == "" {
		return nil, fmt.Errorf("%w: empty search term", ErrConfigInvalid)
	}

	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("type", "search")
	params.Set("amazon_domain", "amazon.com")
	params.Set("search_term", input.Term)
	if input.Category != "" {
		params.Set("category_id", input.Category)
	}
	if input.Page > 1 {
		params.Set("page", strconv.Itoa(input.Page))
	}

	data, err := c.get(ctx, "/request?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if !resp.RequestInfo.Success {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, resp.RequestInfo.Message)
	}

	result := &SearchResult{
		TotalResults: resp.Pagination.TotalResults,
		Page:         resp.Pagination.CurrentPage,
	}
	for _, hit := range resp.SearchResults {
		product := SearchProduct{
			ASIN:        hit.ASIN,
			Title:       hit.Title,
			Brand:       hit.Brand,
			Price:       hit.Price.Value,
			Rating:      hit.Rating,
			ReviewCount: hit.RatingsTotal,
			IsPrime:     hit.IsPrime,
			Image:       hit.Image,
		}
		if len(hit.Categories) > 0 {
			product.Category = hit.Categories[len(hit.Categories)-1].Name
		}
		result.Products = append(result.Products, product)
	}
	return result, nil
}

// EstimateCost returns the dollar cost of running n requests at the
// configured per-token rate.
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

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusPaymentRequired {
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http status %d", ErrRequestFailed, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
