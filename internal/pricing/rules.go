package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"

	"github.com/shopspring/decimal"
)

// weightSumTolerance is the allowed drift when checking that the
// demand score weights sum to 1.0.
const weightSumTolerance = 0.001

// PriceBand is the global [min, max] retail price clamp.
type PriceBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// CompetitorRules holds the fixed display-price multipliers. Every
// multiplier must be at or above MinimumMarkup so that displayed
// competitor prices always exceed the retail price by the configured
// floor.
type CompetitorRules struct {
	MinimumMarkup decimal.Decimal
	Multipliers   map[string]decimal.Decimal
}

// DemandTier is one eligibility band, checked in declaration order.
type DemandTier struct {
	Name           string
	MaxBSR         int
	MinDemandScore int
	RefreshDays    int
}

// ScoreWeights are the demand sub-score weights; they must sum to 1.0.
type ScoreWeights struct {
	BSR            float64
	BSRTrend       float64
	PriceStability float64
	ReviewVelocity float64
}

// DiscoveryFilters gate which sourced items enter the catalog.
type DiscoveryFilters struct {
	PriceMin           decimal.Decimal
	PriceMax           decimal.Decimal
	MinRating          float64
	MinReviews         int
	RequirePrime       bool
	ExcludedBrands     []string
	ExcludedCategories []string
}

// SalesEstimateBucket maps a BSR ceiling to an estimated monthly
// sales volume. Buckets are kept sorted ascending by MaxBSR.
type SalesEstimateBucket struct {
	MaxBSR       int
	MonthlySales int
}

// PriceRefreshTier maps a retail price floor to a refresh interval in
// days. Tiers are kept sorted descending by MinPrice.
type PriceRefreshTier struct {
	MinPrice decimal.Decimal
	Days     int
}

// Rules is the immutable pricing/discovery configuration. It is built
// once at process start, validated, and passed explicitly into the
// engine; nothing mutates it afterwards.
type Rules struct {
	MarkupPercent      decimal.Decimal
	MinimumProfit      decimal.Decimal
	PriceBand          PriceBand
	Competitors        CompetitorRules
	Tiers              []DemandTier // high -> medium -> low
	Weights            ScoreWeights
	Discovery          DiscoveryFilters
	SalesEstimates     []SalesEstimateBucket
	RefreshByPrice     []PriceRefreshTier
	RefreshDefaultDays int
}

// Default returns the built-in rule set.
func Default() Rules {
	return Rules{
		MarkupPercent: decimal.NewFromInt(70),
		MinimumProfit: decimal.NewFromInt(3),
		PriceBand: PriceBand{
			Min: decimal.NewFromInt(5),
			Max: decimal.NewFromInt(100),
		},
		Competitors: CompetitorRules{
			MinimumMarkup: decimal.NewFromFloat(1.80),
			Multipliers: map[string]decimal.Decimal{
				constants.CompetitorAmazon:  decimal.NewFromFloat(1.85),
				constants.CompetitorCostco:  decimal.NewFromFloat(1.95),
				constants.CompetitorEbay:    decimal.NewFromFloat(1.90),
				constants.CompetitorSams:    decimal.NewFromFloat(1.92),
				constants.CompetitorWalmart: decimal.NewFromFloat(1.88),
				constants.CompetitorTarget:  decimal.NewFromFloat(1.98),
			},
		},
		Tiers: []DemandTier{
			{Name: constants.DemandTierHigh, MaxBSR: 10000, MinDemandScore: 70, RefreshDays: 1},
			{Name: constants.DemandTierMedium, MaxBSR: 50000, MinDemandScore: 50, RefreshDays: 3},
			{Name: constants.DemandTierLow, MaxBSR: 150000, MinDemandScore: 30, RefreshDays: 7},
		},
		Weights: ScoreWeights{
			BSR:            0.40,
			BSRTrend:       0.25,
			PriceStability: 0.20,
			ReviewVelocity: 0.15,
		},
		Discovery: DiscoveryFilters{
			PriceMin:     decimal.NewFromInt(15),
			PriceMax:     decimal.NewFromInt(80),
			MinRating:    4.0,
			MinReviews:   50,
			RequirePrime: true,
			ExcludedBrands: []string{
				"nike", "adidas", "apple", "samsung", "sony",
				"lego", "disney", "gucci", "rolex",
			},
			ExcludedCategories: []string{
				"grocery & gourmet food",
				"health & household",
				"cell phones & accessories",
			},
		},
		SalesEstimates: []SalesEstimateBucket{
			{MaxBSR: 100, MonthlySales: 3000},
			{MaxBSR: 500, MonthlySales: 1500},
			{MaxBSR: 1000, MonthlySales: 900},
			{MaxBSR: 5000, MonthlySales: 450},
			{MaxBSR: 10000, MonthlySales: 250},
			{MaxBSR: 25000, MonthlySales: 120},
			{MaxBSR: 50000, MonthlySales: 60},
			{MaxBSR: 100000, MonthlySales: 25},
			{MaxBSR: 250000, MonthlySales: 10},
		},
		RefreshByPrice: []PriceRefreshTier{
			{MinPrice: decimal.NewFromInt(75), Days: 1},
			{MinPrice: decimal.NewFromInt(50), Days: 2},
			{MinPrice: decimal.NewFromInt(25), Days: 3},
			{MinPrice: decimal.NewFromInt(10), Days: 5},
		},
		RefreshDefaultDays: 7,
	}
}

// FromConfig overlays non-zero config values onto the defaults.
func FromConfig(cfg *config.Config) Rules {
	rules := Default()
	if cfg == nil {
		return rules
	}

	if cfg.Pricing.MarkupPercent > 0 {
		rules.MarkupPercent = decimal.NewFromFloat(cfg.Pricing.MarkupPercent)
	}
	if cfg.Pricing.MinimumProfit > 0 {
		rules.MinimumProfit = decimal.NewFromFloat(cfg.Pricing.MinimumProfit)
	}
	if cfg.Pricing.PriceMin > 0 {
		rules.PriceBand.Min = decimal.NewFromFloat(cfg.Pricing.PriceMin)
	}
	if cfg.Pricing.PriceMax > 0 {
		rules.PriceBand.Max = decimal.NewFromFloat(cfg.Pricing.PriceMax)
	}
	if cfg.Pricing.MinimumMarkup > 0 {
		rules.Competitors.MinimumMarkup = decimal.NewFromFloat(cfg.Pricing.MinimumMarkup)
	}

	if cfg.Discovery.PriceMin > 0 {
		rules.Discovery.PriceMin = decimal.NewFromFloat(cfg.Discovery.PriceMin)
	}
	if cfg.Discovery.PriceMax > 0 {
		rules.Discovery.PriceMax = decimal.NewFromFloat(cfg.Discovery.PriceMax)
	}
	if cfg.Discovery.MinRating > 0 {
		rules.Discovery.MinRating = cfg.Discovery.MinRating
	}
	if cfg.Discovery.MinReviews > 0 {
		rules.Discovery.MinReviews = cfg.Discovery.MinReviews
	}
	if cfg.Discovery.RequirePrime != nil {
		rules.Discovery.RequirePrime = *cfg.Discovery.RequirePrime
	}
	if len(cfg.Discovery.ExcludedBrands) > 0 {
		rules.Discovery.ExcludedBrands = normalizeList(cfg.Discovery.ExcludedBrands)
	}
	if len(cfg.Discovery.ExcludedCategories) > 0 {
		rules.Discovery.ExcludedCategories = normalizeList(cfg.Discovery.ExcludedCategories)
	}

	return rules
}

// Validate checks the startup invariants. A non-empty result is a
// fatal configuration error; callers must abort boot.
func (r Rules) Validate() []string {
	var errs []string

	weightSum := r.Weights.BSR + r.Weights.BSRTrend + r.Weights.PriceStability + r.Weights.ReviewVelocity
	if math.Abs(weightSum-1.0) > weightSumTolerance {
		errs = append(errs, fmt.Sprintf("demand score weights sum to %.4f, expected 1.0", weightSum))
	}

	if len(r.Tiers) == 0 {
		errs = append(errs, "no demand tiers configured")
	}
	for i := 1; i < len(r.Tiers); i++ {
		if r.Tiers[i].MaxBSR <= r.Tiers[i-1].MaxBSR {
			errs = append(errs, fmt.Sprintf(
				"demand tier %q max BSR %d must exceed tier %q max BSR %d",
				r.Tiers[i].Name, r.Tiers[i].MaxBSR, r.Tiers[i-1].Name, r.Tiers[i-1].MaxBSR))
		}
	}

	if !r.Discovery.PriceMin.LessThan(r.Discovery.PriceMax) {
		errs = append(errs, fmt.Sprintf(
			"discovery price range invalid: min %s must be below max %s",
			r.Discovery.PriceMin, r.Discovery.PriceMax))
	}

	if !r.PriceBand.Min.LessThan(r.PriceBand.Max) {
		errs = append(errs, fmt.Sprintf(
			"price band invalid: min %s must be below max %s",
			r.PriceBand.Min, r.PriceBand.Max))
	}

	for _, competitor := range constants.Competitors {
		multiplier, ok := r.Competitors.Multipliers[competitor]
		if !ok {
			errs = append(errs, fmt.Sprintf("competitor %q has no multiplier", competitor))
			continue
		}
		if multiplier.LessThan(r.Competitors.MinimumMarkup) {
			errs = append(errs, fmt.Sprintf(
				"competitor %q multiplier %s is below minimum markup %s",
				competitor, multiplier, r.Competitors.MinimumMarkup))
		}
	}

	return errs
}

// TierByName returns the tier config for a tier name, if present.
func (r Rules) TierByName(name string) (DemandTier, bool) {
	for _, tier := range r.Tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return DemandTier{}, false
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
