package pricing

import (
	"strings"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"

	"github.com/shopspring/decimal"
)

func TestDefaultRulesValidate(t *testing.T) {
	if errs := Default().Validate(); len(errs) > 0 {
		t.Fatalf("default rules must validate cleanly, got %v", errs)
	}
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	rules := Default()
	rules.Weights.BSR = 0.50

	errs := rules.Validate()
	if len(errs) == 0 {
		t.Fatalf("expected a weight sum error")
	}
	if !strings.Contains(errs[0], "weights sum") {
		t.Fatalf("unexpected error: %v", errs)
	}
}

func TestValidateRejectsUnorderedTiers(t *testing.T) {
	rules := Default()
	rules.Tiers[1].MaxBSR = rules.Tiers[0].MaxBSR

	if errs := rules.Validate(); len(errs) == 0 {
		t.Fatalf("expected a tier ordering error")
	}
}

func TestValidateRejectsInvertedRanges(t *testing.T) {
	rules := Default()
	rules.Discovery.PriceMin = decimal.NewFromInt(90)
	rules.PriceBand.Min = decimal.NewFromInt(200)

	errs := rules.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 range errors, got %v", errs)
	}
}

func TestValidateRejectsMultiplierBelowFloor(t *testing.T) {
	rules := Default()
	rules.Competitors.Multipliers[constants.CompetitorEbay] = decimal.NewFromFloat(1.50)

	if errs := rules.Validate(); len(errs) == 0 {
		t.Fatalf("expected a multiplier floor error")
	}
}

func TestValidateRejectsMissingMultiplier(t *testing.T) {
	rules := Default()
	delete(rules.Competitors.Multipliers, constants.CompetitorTarget)

	if errs := rules.Validate(); len(errs) == 0 {
		t.Fatalf("expected a missing multiplier error")
	}
}

func TestFromConfigOverlaysNonZeroValues(t *testing.T) {
	requirePrime := false
	cfg := &config.Config{}
	cfg.Pricing.MarkupPercent = 85
	cfg.Pricing.MinimumProfit = 5
	cfg.Discovery.MinReviews = 200
	cfg.Discovery.RequirePrime = &requirePrime
	cfg.Discovery.ExcludedBrands = []string{" Nike ", "", "Bose"}

	rules := FromConfig(cfg)
	if !rules.MarkupPercent.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("markup not overlaid: %s", rules.MarkupPercent)
	}
	if !rules.MinimumProfit.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("minimum profit not overlaid: %s", rules.MinimumProfit)
	}
	if rules.Discovery.MinReviews != 200 {
		t.Fatalf("min reviews not overlaid: %d", rules.Discovery.MinReviews)
	}
	if rules.Discovery.RequirePrime {
		t.Fatalf("require prime override lost")
	}
	if len(rules.Discovery.ExcludedBrands) != 2 || rules.Discovery.ExcludedBrands[0] != "nike" {
		t.Fatalf("excluded brands not normalized: %v", rules.Discovery.ExcludedBrands)
	}

	// Untouched fields keep their defaults.
	if !rules.PriceBand.Max.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("price band max changed unexpectedly: %s", rules.PriceBand.Max)
	}
}

func TestFromConfigNilKeepsDefaults(t *testing.T) {
	rules := FromConfig(nil)
	if !rules.MarkupPercent.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("nil config should yield defaults, got markup %s", rules.MarkupPercent)
	}
}
