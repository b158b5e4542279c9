package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"

	"github.com/shopspring/decimal"
)

// neutralScore is the sub-score used when a signal has too little
// history to say anything either way.
const neutralScore = 50.0

// Engine computes prices and eligibility from an immutable rule set.
// Every method is a pure function of its arguments and the rules;
// callers are responsible for validating raw input (a non-positive
// cost is a caller error, not an engine concern).
type Engine struct {
	rules Rules
}

// NewEngine creates an engine bound to a validated rule set.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Rules exposes the bound rule set (read-only by convention).
func (e *Engine) Rules() Rules {
	return e.rules
}

// RetailPrice derives the selling price from the Amazon cost: apply
// the markup percentage, enforce the minimum absolute profit, then
// clamp into the global price band. The result is always inside the
// band regardless of input magnitude.
func (e *Engine) RetailPrice(cost decimal.Decimal) decimal.Decimal {
	markup := e.rules.MarkupPercent.Div(decimal.NewFromInt(100))
	retail := cost.Mul(decimal.NewFromInt(1).Add(markup))

	if retail.Sub(cost).LessThan(e.rules.MinimumProfit) {
		retail = cost.Add(e.rules.MinimumProfit)
	}

	if retail.LessThan(e.rules.PriceBand.Min) {
		retail = e.rules.PriceBand.Min
	}
	if retail.GreaterThan(e.rules.PriceBand.Max) {
		retail = e.rules.PriceBand.Max
	}

	return retail.Round(2)
}

// CompetitorPriceSet holds one display price per competitor slot.
type CompetitorPriceSet struct {
	Amazon  decimal.Decimal
	Costco  decimal.Decimal
	Ebay    decimal.Decimal
	Sams    decimal.Decimal
	Walmart decimal.Decimal
	Target  decimal.Decimal
}

// For returns the price for a competitor slot name.
func (s CompetitorPriceSet) For(competitor string) decimal.Decimal {
	switch competitor {
	case constants.CompetitorAmazon:
		return s.Amazon
	case constants.CompetitorCostco:
		return s.Costco
	case constants.CompetitorEbay:
		return s.Ebay
	case constants.CompetitorSams:
		return s.Sams
	case constants.CompetitorWalmart:
		return s.Walmart
	case constants.CompetitorTarget:
		return s.Target
	default:
		return decimal.Zero
	}
}

// CompetitorPrices multiplies the retail price by each competitor's
// fixed multiplier. Because every configured multiplier is at or above
// the minimum markup, each output is >= retail * minimumMarkup by
// construction.
func (e *Engine) CompetitorPrices(retail decimal.Decimal) CompetitorPriceSet {
	price := func(competitor string) decimal.Decimal {
		return retail.Mul(e.rules.Competitors.Multipliers[competitor]).Round(2)
	}
	return CompetitorPriceSet{
		Amazon:  price(constants.CompetitorAmazon),
		Costco:  price(constants.CompetitorCostco),
		Ebay:    price(constants.CompetitorEbay),
		Sams:    price(constants.CompetitorSams),
		Walmart: price(constants.CompetitorWalmart),
		Target:  price(constants.CompetitorTarget),
	}
}

// DiscoveryInput carries the raw signals a sourced item is judged on.
type DiscoveryInput struct {
	Price       decimal.Decimal
	Rating      float64
	ReviewCount int
	IsPrime     bool
	Category    string
	Title       string
}

// DiscoveryResult reports eligibility plus one reason per failed
// check; the full list feeds the rejection breakdown view.
type DiscoveryResult struct {
	Meets   bool     `json:"meets"`
	Reasons []string `json:"reasons"`
}

// MeetsDiscoveryCriteria evaluates every discovery filter
// independently and accumulates a reason per failure; it never
// short-circuits, so callers always see the complete diagnosis.
func (e *Engine) MeetsDiscoveryCriteria(input DiscoveryInput) DiscoveryResult {
	filters := e.rules.Discovery
	var reasons []string

	if input.Price.LessThan(filters.PriceMin) || input.Price.GreaterThan(filters.PriceMax) {
		reasons = append(reasons, fmt.Sprintf(
			"price %s outside range [%s, %s]",
			input.Price.StringFixed(2), filters.PriceMin.StringFixed(2), filters.PriceMax.StringFixed(2)))
	}
	if input.Rating < filters.MinRating {
		reasons = append(reasons, fmt.Sprintf(
			"rating %.1f below minimum %.1f", input.Rating, filters.MinRating))
	}
	if input.ReviewCount < filters.MinReviews {
		reasons = append(reasons, fmt.Sprintf(
			"review count %d below minimum %d", input.ReviewCount, filters.MinReviews))
	}
	if filters.RequirePrime && !input.IsPrime {
		reasons = append(reasons, "not Prime eligible")
	}
	if excluded, category := e.isExcludedCategory(input.Category); excluded {
		reasons = append(reasons, fmt.Sprintf("category %q is excluded", category))
	}
	if found, brand := e.ContainsExcludedBrand(input.Title); found {
		reasons = append(reasons, fmt.Sprintf("title contains excluded brand %q", brand))
	}

	return DiscoveryResult{
		Meets:   len(reasons) == 0,
		Reasons: reasons,
	}
}

// ContainsExcludedBrand reports whether the title contains any
// excluded brand as a case-insensitive substring.
func (e *Engine) ContainsExcludedBrand(title string) (bool, string) {
	normalized := strings.ToLower(title)
	for _, brand := range e.rules.Discovery.ExcludedBrands {
		if brand != "" && strings.Contains(normalized, brand) {
			return true, brand
		}
	}
	return false, ""
}

func (e *Engine) isExcludedCategory(category string) (bool, string) {
	normalized := strings.ToLower(strings.TrimSpace(category))
	for _, excluded := range e.rules.Discovery.ExcludedCategories {
		if excluded != "" && normalized == excluded {
			return true, category
		}
	}
	return false, ""
}

// DemandResult reports which tier (if any) a product qualifies for.
type DemandResult struct {
	Tier   string `json:"tier"`
	Meets  bool   `json:"meets"`
	Reason string `json:"reason,omitempty"`
}

// MeetsDemandCriteria walks the tiers from the highest bar down; the
// first tier whose BSR ceiling and demand score floor are both
// satisfied wins. No match yields the reject tier.
func (e *Engine) MeetsDemandCriteria(bsr, demandScore int) DemandResult {
	for _, tier := range e.rules.Tiers {
		if bsr > 0 && bsr <= tier.MaxBSR && demandScore >= tier.MinDemandScore {
			return DemandResult{Tier: tier.Name, Meets: true}
		}
	}
	return DemandResult{
		Tier:   constants.DemandTierReject,
		Meets:  false,
		Reason: fmt.Sprintf("bsr %d / demand score %d below every tier threshold", bsr, demandScore),
	}
}

// DemandSignals carries the raw history a demand score is computed
// from. Missing history degrades the affected sub-score to a neutral
// 50 rather than failing.
type DemandSignals struct {
	BSR           int
	BSRHistory    []int
	PriceHistory  []float64
	RecentReviews int
	TotalReviews  int
}

// DemandScore combines four weighted sub-scores (BSR rank, BSR trend,
// price stability, review velocity) into a 0-100 integer.
func (e *Engine) DemandScore(signals DemandSignals) int {
	weights := e.rules.Weights
	score := bsrScore(signals.BSR)*weights.BSR +
		bsrTrendScore(signals.BSRHistory)*weights.BSRTrend +
		priceStabilityScore(signals.PriceHistory)*weights.PriceStability +
		reviewVelocityScore(signals.RecentReviews, signals.TotalReviews)*weights.ReviewVelocity

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// bsrScore rewards low best-seller ranks on a logarithmic scale:
// 100 - log10(bsr) * 15, floored at zero.
func bsrScore(bsr int) float64 {
	if bsr <= 0 {
		return 0
	}
	score := 100 - math.Log10(float64(bsr))*15
	if score < 0 {
		return 0
	}
	return score
}

// bsrTrendScore compares the mean of the earlier half of the BSR
// history against the later half. A falling BSR (rank improving) maps
// above 50, a rising one below.
func bsrTrendScore(history []int) float64 {
	if len(history) < 2 {
		return neutralScore
	}
	mid := len(history) / 2
	earlier := meanInt(history[:mid])
	later := meanInt(history[mid:])
	if earlier <= 0 {
		return neutralScore
	}
	relativeImprovement := (earlier - later) / earlier
	return clampScore(50 + relativeImprovement*100)
}

// priceStabilityScore penalizes volatile pricing via the coefficient
// of variation: 100 - cv * 200, clamped.
func priceStabilityScore(history []float64) float64 {
	if len(history) < 2 {
		return neutralScore
	}
	mean := meanFloat(history)
	if mean <= 0 {
		return neutralScore
	}
	var sumSquares float64
	for _, price := range history {
		diff := price - mean
		sumSquares += diff * diff
	}
	stddev := math.Sqrt(sumSquares / float64(len(history)))
	cv := stddev / mean
	return clampScore(100 - cv*200)
}

// reviewVelocityScore scores the share of reviews that are recent:
// min(100, recent/total * 1000).
func reviewVelocityScore(recent, total int) float64 {
	if total <= 0 || recent < 0 {
		return neutralScore
	}
	score := float64(recent) / float64(total) * 1000
	if score > 100 {
		return 100
	}
	return score
}

// EstimateMonthlySales resolves the sales estimate for a BSR via the
// smallest bucket the rank falls under; out-of-table or non-positive
// ranks estimate zero.
func (e *Engine) EstimateMonthlySales(bsr int) int {
	if bsr <= 0 {
		return 0
	}
	for _, bucket := range e.rules.SalesEstimates {
		if bsr <= bucket.MaxBSR {
			return bucket.MonthlySales
		}
	}
	return 0
}

// RefreshIntervalByPrice returns the refresh cadence in days for a
// retail price; pricier items are checked more often.
func (e *Engine) RefreshIntervalByPrice(price decimal.Decimal) int {
	for _, tier := range e.rules.RefreshByPrice {
		if price.GreaterThanOrEqual(tier.MinPrice) {
			return tier.Days
		}
	}
	return e.rules.RefreshDefaultDays
}

// RefreshIntervalByDemand returns the refresh cadence in days for a
// demand tier; rejected items fall back to the slowest cadence.
func (e *Engine) RefreshIntervalByDemand(tier string) int {
	if found, ok := e.rules.TierByName(tier); ok {
		return found.RefreshDays
	}
	return e.rules.RefreshDefaultDays
}

func meanInt(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
