package handlers

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PricingPreviewRequest asks what a cost would price out to.
type PricingPreviewRequest struct {
	Cost float64 `json:"cost" binding:"required"`
}

// PricingPreview derives retail price, competitor display prices, and
// margin from a hypothetical cost without touching the catalog.
func (h *Handler) PricingPreview(c *gin.Context) {
	var req PricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}
	if req.Cost <= 0 {
		respondError(c, response.CodeBadRequest, errcode.PriceCalcInvalidCost, nil)
		return
	}

	cost := decimal.NewFromFloat(req.Cost)
	retail := h.Engine.RetailPrice(cost)
	prices := h.Engine.CompetitorPrices(retail)
	margin := retail.Sub(cost)
	percent, _ := margin.Div(cost).Mul(decimal.NewFromInt(100)).Round(2).Float64()

	response.Success(c, gin.H{
		"cost":           cost.Round(2).String(),
		"retail_price":   retail.String(),
		"profit_margin":  margin.Round(2).String(),
		"profit_percent": percent,
		"refresh_days":   h.Engine.RefreshIntervalByPrice(retail),
		"competitor_prices": gin.H{
			constants.CompetitorAmazon:  prices.Amazon.String(),
			constants.CompetitorCostco:  prices.Costco.String(),
			constants.CompetitorEbay:    prices.Ebay.String(),
			constants.CompetitorSams:    prices.Sams.String(),
			constants.CompetitorWalmart: prices.Walmart.String(),
			constants.CompetitorTarget:  prices.Target.String(),
		},
	})
}

// PricingRules exposes the effective rule set, read-only.
func (h *Handler) PricingRules(c *gin.Context) {
	rules := h.Engine.Rules()

	multipliers := gin.H{}
	for name, m := range rules.Competitors.Multipliers {
		multipliers[name] = m.String()
	}
	tiers := make([]gin.H, 0, len(rules.Tiers))
	for _, tier := range rules.Tiers {
		tiers = append(tiers, gin.H{
			"name":             tier.Name,
			"max_bsr":          tier.MaxBSR,
			"min_demand_score": tier.MinDemandScore,
			"refresh_days":     tier.RefreshDays,
		})
	}

	response.Success(c, gin.H{
		"markup_percent": rules.MarkupPercent.String(),
		"minimum_profit": rules.MinimumProfit.String(),
		"price_band": gin.H{
			"min": rules.PriceBand.Min.String(),
			"max": rules.PriceBand.Max.String(),
		},
		"competitors": gin.H{
			"minimum_markup": rules.Competitors.MinimumMarkup.String(),
			"multipliers":    multipliers,
		},
		"tiers": tiers,
		"weights": gin.H{
			"bsr":             rules.Weights.BSR,
			"bsr_trend":       rules.Weights.BSRTrend,
			"price_stability": rules.Weights.PriceStability,
			"review_velocity": rules.Weights.ReviewVelocity,
		},
		"discovery": gin.H{
			"price_min":           rules.Discovery.PriceMin.String(),
			"price_max":           rules.Discovery.PriceMax.String(),
			"min_rating":          rules.Discovery.MinRating,
			"min_reviews":         rules.Discovery.MinReviews,
			"require_prime":       rules.Discovery.RequirePrime,
			"excluded_brands":     rules.Discovery.ExcludedBrands,
			"excluded_categories": rules.Discovery.ExcludedCategories,
		},
		"refresh_default_days": rules.RefreshDefaultDays,
	})
}
