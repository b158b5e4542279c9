package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/provider"

	"github.com/gin-gonic/gin"
)

func newPricingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(&provider.Container{Engine: pricing.NewEngine(pricing.Default())})
	r := gin.New()
	r.POST("/pricing/preview", h.PricingPreview)
	r.GET("/pricing/rules", h.PricingRules)
	return r
}

func TestPricingPreview(t *testing.T) {
	r := newPricingRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pricing/preview", strings.NewReader(`{"cost": 20}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			RetailPrice      string            `json:"retail_price"`
			ProfitMargin     string            `json:"profit_margin"`
			RefreshDays      int               `json:"refresh_days"`
			CompetitorPrices map[string]string `json:"competitor_prices"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d", resp.StatusCode)
	}
	if resp.Data.RetailPrice != "34" {
		t.Fatalf("retail price want 34 got %s", resp.Data.RetailPrice)
	}
	if resp.Data.ProfitMargin != "14" {
		t.Fatalf("profit margin want 14 got %s", resp.Data.ProfitMargin)
	}
	if resp.Data.RefreshDays != 3 {
		t.Fatalf("refresh days want 3 got %d", resp.Data.RefreshDays)
	}
	if resp.Data.CompetitorPrices["amazon"] != "62.9" {
		t.Fatalf("amazon display price want 62.9 got %s", resp.Data.CompetitorPrices["amazon"])
	}
}

func TestPricingPreviewInvalidCost(t *testing.T) {
	r := newPricingRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pricing/preview", strings.NewReader(`{"cost": -5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
	if resp.Data["code"] != "PRICE_CALC_INVALID_COST" {
		t.Fatalf("error code want PRICE_CALC_INVALID_COST got %v", resp.Data["code"])
	}
}

func TestPricingRules(t *testing.T) {
	r := newPricingRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pricing/rules", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			MarkupPercent string `json:"markup_percent"`
			Tiers         []struct {
				Name string `json:"name"`
			} `json:"tiers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.Data.MarkupPercent != "70" {
		t.Fatalf("markup percent want 70 got %s", resp.Data.MarkupPercent)
	}
	if len(resp.Data.Tiers) != 3 || resp.Data.Tiers[0].Name != "high" {
		t.Fatalf("tiers want high/medium/low got %+v", resp.Data.Tiers)
	}
}
