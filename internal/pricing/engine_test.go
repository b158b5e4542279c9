package pricing

import (
	"strings"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"

	"github.com/shopspring/decimal"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	rules := Default()
	if errs := rules.Validate(); len(errs) > 0 {
		t.Fatalf("default rules invalid: %v", errs)
	}
	return NewEngine(rules)
}

func TestRetailPriceAppliesMarkup(t *testing.T) {
	engine := newTestEngine(t)

	// $10 at 70% markup is $17.00: above the minimum profit, inside the band.
	got := engine.RetailPrice(decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromFloat(17.00)) {
		t.Fatalf("retail price = %s, expected 17.00", got)
	}
}

func TestRetailPriceEnforcesMinimumProfit(t *testing.T) {
	engine := newTestEngine(t)

	// $4 at 70% markup is $6.80, only $2.80 of profit; the $3 floor
	// pushes the price to cost + 3.00.
	got := engine.RetailPrice(decimal.NewFromInt(4))
	if !got.Equal(decimal.NewFromFloat(7.00)) {
		t.Fatalf("retail price = %s, expected cost+minimum profit 7.00", got)
	}
}

func TestRetailPriceClampsToBand(t *testing.T) {
	engine := newTestEngine(t)

	high := engine.RetailPrice(decimal.NewFromInt(500))
	if !high.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("retail price = %s, expected band max 100", high)
	}

	low := engine.RetailPrice(decimal.NewFromFloat(0.50))
	if !low.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("retail price = %s, expected band min 5", low)
	}
}

func TestRetailPriceProfitFloorProperty(t *testing.T) {
	engine := newTestEngine(t)
	rules := engine.Rules()

	costs := []float64{0.01, 1, 3.33, 10, 14.70, 25, 58.8, 99, 250}
	for _, cost := range costs {
		costDec := decimal.NewFromFloat(cost)
		retail := engine.RetailPrice(costDec)
		profitOK := retail.Sub(costDec).GreaterThanOrEqual(rules.MinimumProfit)
		clamped := retail.Equal(rules.PriceBand.Max)
		if !profitOK && !clamped {
			t.Fatalf("cost %.2f: retail %s violates profit floor without clamping", cost, retail)
		}
		if retail.LessThan(rules.PriceBand.Min) || retail.GreaterThan(rules.PriceBand.Max) {
			t.Fatalf("cost %.2f: retail %s outside band", cost, retail)
		}
	}
}

func TestRetailPriceScenario(t *testing.T) {
	engine := newTestEngine(t)

	// $14.70 at 70% markup lands exactly on $24.99.
	retail := engine.RetailPrice(decimal.NewFromFloat(14.70))
	if !retail.Equal(decimal.NewFromFloat(24.99)) {
		t.Fatalf("retail price = %s, expected 24.99", retail)
	}

	prices := engine.CompetitorPrices(retail)
	if !prices.Amazon.Equal(decimal.NewFromFloat(46.23)) {
		t.Fatalf("amazon display price = %s, expected 46.23", prices.Amazon)
	}
}

func TestCompetitorPricesFloorProperty(t *testing.T) {
	engine := newTestEngine(t)
	rules := engine.Rules()

	retails := []float64{5, 17, 24.99, 49.5, 100}
	for _, retail := range retails {
		retailDec := decimal.NewFromFloat(retail)
		floor := retailDec.Mul(rules.Competitors.MinimumMarkup)
		prices := engine.CompetitorPrices(retailDec)
		for _, competitor := range constants.Competitors {
			got := prices.For(competitor)
			// Rounding down at 2dp can sit a fraction of a cent under the
			// exact product; compare against the floor rounded the same way.
			if got.LessThan(floor.Round(2)) {
				t.Fatalf("retail %.2f: %s price %s below floor %s", retail, competitor, got, floor)
			}
		}
	}
}

func TestCompetitorPricesExactMultiplier(t *testing.T) {
	engine := newTestEngine(t)

	prices := engine.CompetitorPrices(decimal.NewFromInt(17))
	if !prices.Amazon.Equal(decimal.NewFromFloat(31.45)) {
		t.Fatalf("amazon price = %s, expected 17 x 1.85 = 31.45", prices.Amazon)
	}
}

func TestMeetsDiscoveryCriteriaAccumulatesAllReasons(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.MeetsDiscoveryCriteria(DiscoveryInput{
		Price:       decimal.NewFromInt(2),
		Rating:      3.0,
		ReviewCount: 5,
		IsPrime:     false,
		Category:    "Grocery & Gourmet Food",
		Title:       "Nike Running Shoes",
	})
	if result.Meets {
		t.Fatalf("expected rejection")
	}
	if len(result.Reasons) != 6 {
		t.Fatalf("expected 6 reasons, got %d: %v", len(result.Reasons), result.Reasons)
	}
}

func TestMeetsDiscoveryCriteriaPasses(t *testing.T) {
	engine := newTestEngine(t)

	input := DiscoveryInput{
		Price:       decimal.NewFromFloat(29.99),
		Rating:      4.5,
		ReviewCount: 320,
		IsPrime:     true,
		Category:    "Kitchen & Dining",
		Title:       "Stainless Steel Pour Over Kettle",
	}
	result := engine.MeetsDiscoveryCriteria(input)
	if !result.Meets || len(result.Reasons) != 0 {
		t.Fatalf("expected pass, got %+v", result)
	}

	// Pure function: a second run on the same input is identical.
	again := engine.MeetsDiscoveryCriteria(input)
	if again.Meets != result.Meets || len(again.Reasons) != len(result.Reasons) {
		t.Fatalf("discovery result not stable across calls: %+v vs %+v", result, again)
	}
}

func TestMeetsDiscoveryCriteriaExcludedBrand(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.MeetsDiscoveryCriteria(DiscoveryInput{
		Price:       decimal.NewFromFloat(39.99),
		Rating:      4.6,
		ReviewCount: 900,
		IsPrime:     true,
		Category:    "Sports & Outdoors",
		Title:       "Nike Running Shoes",
	})
	if result.Meets {
		t.Fatalf("expected brand rejection")
	}
	found := false
	for _, reason := range result.Reasons {
		if strings.Contains(reason, "excluded brand") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an excluded-brand reason, got %v", result.Reasons)
	}
}

func TestMeetsDemandCriteriaFirstMatchWins(t *testing.T) {
	engine := newTestEngine(t)

	// Satisfies the high tier; must never be classified medium.
	result := engine.MeetsDemandCriteria(5000, 85)
	if result.Tier != constants.DemandTierHigh || !result.Meets {
		t.Fatalf("expected high tier, got %+v", result)
	}
}

func TestMeetsDemandCriteriaTiers(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name  string
		bsr   int
		score int
		tier  string
		meets bool
	}{
		{"medium by bsr", 25000, 60, constants.DemandTierMedium, true},
		{"high score but slow rank", 120000, 90, constants.DemandTierLow, true},
		{"score below every floor", 5000, 10, constants.DemandTierReject, false},
		{"rank beyond low ceiling", 400000, 80, constants.DemandTierReject, false},
		{"missing bsr", 0, 80, constants.DemandTierReject, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.MeetsDemandCriteria(tt.bsr, tt.score)
			if result.Tier != tt.tier || result.Meets != tt.meets {
				t.Fatalf("bsr=%d score=%d: got %+v, expected tier=%s meets=%v",
					tt.bsr, tt.score, result, tt.tier, tt.meets)
			}
			if !tt.meets && result.Reason == "" {
				t.Fatalf("reject result should carry a reason")
			}
		})
	}
}

func TestDemandScoreNeutralDefaults(t *testing.T) {
	engine := newTestEngine(t)

	// No history at all: trend, stability and velocity all degrade to 50.
	score := engine.DemandScore(DemandSignals{BSR: 25000})
	// bsr sub-score: 100 - log10(25000)*15 = 34.02; weighted:
	// 34.02*0.4 + 50*0.25 + 50*0.2 + 50*0.15 = 43.6 -> 44
	if score != 44 {
		t.Fatalf("demand score = %d, expected 44", score)
	}
}

func TestDemandScoreImprovingTrend(t *testing.T) {
	engine := newTestEngine(t)

	improving := engine.DemandScore(DemandSignals{
		BSR:        10000,
		BSRHistory: []int{40000, 38000, 20000, 18000},
	})
	degrading := engine.DemandScore(DemandSignals{
		BSR:        10000,
		BSRHistory: []int{18000, 20000, 38000, 40000},
	})
	if improving <= degrading {
		t.Fatalf("improving BSR history should outscore degrading: %d vs %d", improving, degrading)
	}
}

func TestDemandScorePriceStability(t *testing.T) {
	engine := newTestEngine(t)

	stable := engine.DemandScore(DemandSignals{
		BSR:          10000,
		PriceHistory: []float64{19.99, 19.99, 20.49, 19.99},
	})
	volatile := engine.DemandScore(DemandSignals{
		BSR:          10000,
		PriceHistory: []float64{9.99, 39.99, 12.49, 34.99},
	})
	if stable <= volatile {
		t.Fatalf("stable pricing should outscore volatile: %d vs %d", stable, volatile)
	}
}

func TestDemandScoreBounds(t *testing.T) {
	engine := newTestEngine(t)

	signals := []DemandSignals{
		{},
		{BSR: 1},
		{BSR: 99999999},
		{BSR: 50, BSRHistory: []int{1000, 10}, RecentReviews: 500, TotalReviews: 600},
	}
	for _, s := range signals {
		score := engine.DemandScore(s)
		if score < 0 || score > 100 {
			t.Fatalf("score %d out of [0,100] for %+v", score, s)
		}
	}
}

func TestEstimateMonthlySales(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		bsr      int
		expected int
	}{
		{0, 0},
		{-5, 0},
		{50, 3000},
		{100, 3000},
		{101, 1500},
		{25000, 120},
		{250000, 10},
		{900000, 0},
	}
	for _, tt := range tests {
		if got := engine.EstimateMonthlySales(tt.bsr); got != tt.expected {
			t.Fatalf("bsr=%d: estimate %d, expected %d", tt.bsr, got, tt.expected)
		}
	}
}

func TestRefreshIntervals(t *testing.T) {
	engine := newTestEngine(t)

	if got := engine.RefreshIntervalByPrice(decimal.NewFromInt(80)); got != 1 {
		t.Fatalf("price 80 interval = %d, expected 1", got)
	}
	if got := engine.RefreshIntervalByPrice(decimal.NewFromFloat(24.99)); got != 5 {
		t.Fatalf("price 24.99 interval = %d, expected 5", got)
	}
	if got := engine.RefreshIntervalByPrice(decimal.NewFromInt(6)); got != 7 {
		t.Fatalf("price 6 interval = %d, expected default 7", got)
	}

	if got := engine.RefreshIntervalByDemand(constants.DemandTierHigh); got != 1 {
		t.Fatalf("high tier interval = %d, expected 1", got)
	}
	if got := engine.RefreshIntervalByDemand(constants.DemandTierMedium); got != 3 {
		t.Fatalf("medium tier interval = %d, expected 3", got)
	}
	if got := engine.RefreshIntervalByDemand(constants.DemandTierReject); got != 7 {
		t.Fatalf("reject tier interval = %d, expected default 7", got)
	}
}

func TestIsValidASIN(t *testing.T) {
	tests := []struct {
		asin  string
		valid bool
	}{
		{"B0ABC12345", true},
		{"b0abc12345", true},
		{" B0ABC12345 ", true},
		{"123456789", false},
		{"B0ABC1234", false},
		{"B0ABC123456", false},
		{"A0ABC12345", false},
		{"B0ABC1234!", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidASIN(tt.asin); got != tt.valid {
			t.Fatalf("IsValidASIN(%q) = %v, expected %v", tt.asin, got, tt.valid)
		}
	}
}
