package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("shopify config invalid")
	ErrRequestFailed   = errors.New("shopify request failed")
	ErrResponseInvalid = errors.New("shopify response invalid")
	ErrAuthFailed      = errors.New("shopify auth failed")
	ErrRateLimited     = errors.New("shopify rate limited")
	ErrNotFound        = errors.New("shopify product not found")
)

const defaultAPIVersion = "2024-07"

// Config holds the Admin REST API connection settings.
type Config struct {
	StoreDomain string `json:"store_domain"` // my-store.myshopify.com
	AccessToken string `json:"access_token"`
	APIVersion  string `json:"api_version"`
	TimeoutMS   int    `json:"timeout_ms"`
}

func (c *Config) normalize() {
	c.StoreDomain = strings.TrimRight(strings.TrimSpace(c.StoreDomain), "/")
	c.StoreDomain = strings.TrimPrefix(c.StoreDomain, "https://")
	c.StoreDomain = strings.TrimPrefix(c.StoreDomain, "http://")
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	c.APIVersion = strings.TrimSpace(c.APIVersion)
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 15000
	}
}

// ValidateConfig checks the required connection settings.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return fmt.Errorf("%w: store_domain is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return fmt.Errorf("%w: access_token is required", ErrConfigInvalid)
	}
	return nil
}

// Client is a minimal Admin REST client covering product push.
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

// Variant is the single sellable variant pushed per product.
type Variant struct {
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price,omitempty"`
	InventoryPolicy   string `json:"inventory_policy,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
}

// Image is a product image by source URL.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Metafield is one custom metafield value.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// ProductInput is the push payload. Metafields ride inline on create;
// updates must use SetMetafield because the PUT product endpoint
// silently drops them.
type ProductInput struct {
	Title      string      `json:"title"`
	BodyHTML   string      `json:"body_html,omitempty"`
	Vendor     string      `json:"vendor,omitempty"`
	Tags       string      `json:"tags,omitempty"`
	Status     string      `json:"status,omitempty"` // active / draft / archived
	Variants   []Variant   `json:"variants,omitempty"`
	Images     []Image     `json:"images,omitempty"`
	Metafields []Metafield `json:"metafields,omitempty"`
}

// ProductResult carries the ids the caller persists after a push.
type ProductResult struct {
	ProductID int64
	VariantID int64
}

type productEnvelope struct {
	Product struct {
		ID       int64 `json:"id"`
		Variants []struct {
			ID int64 `json:"id"`
		} `json:"variants"`
	} `json:"product"`
}

// CreateProduct pushes a new product and returns its ids.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*ProductResult, error) {
	var resp productEnvelope
	payload := map[string]interface{}{"product": input}
	if err := c.doJSON(ctx, http.MethodPost, "/products.json", payload, &resp); err != nil {
		return nil, err
	}
	return envelopeResult(&resp)
}

// UpdateProduct overwrites an existing product. Metafields on the
// input are stripped here; callers set them via SetMetafield.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, input ProductInput) (*ProductResult, error) {
	input.Metafields = nil
	var resp productEnvelope
	payload := map[string]interface{}{"product": input}
	path := fmt.Sprintf("/products/%d.json", productID)
	if err := c.doJSON(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, err
	}
	return envelopeResult(&resp)
}

// SetMetafield writes one metafield on an existing product.
func (c *Client) SetMetafield(ctx context.Context, productID int64, field Metafield) error {
	payload := map[string]interface{}{"metafield": field}
	path := fmt.Sprintf("/products/%d/metafields.json", productID)
	return c.doJSON(ctx, http.MethodPost, path, payload, nil)
}

func envelopeResult(resp *productEnvelope) (*ProductResult, error) {
	if resp.Product.ID == 0 {
		return nil, fmt.Errorf("%w: missing product id", ErrResponseInvalid)
	}
	result := &ProductResult{ProductID: resp.Product.ID}
	if len(resp.Product.Variants) > 0 {
		result.VariantID = resp.Product.Variants[0].ID
	}
	return result, nil
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("https://%s/admin/api/%s%s", c.cfg.StoreDomain, c.cfg.APIVersion, path)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuthFailed
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}
