package service

import (
	"context"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/cache"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"

	"github.com/shopspring/decimal"
)

// statsCacheKey holds the dashboard status counts; every catalog write
// drops it.
const statsCacheKey = "products:stats"

const statsCacheTTL = time.Minute

// ProductService owns catalog CRUD plus the pricing derivations that
// ride along with every write.
type ProductService struct {
	repo   repository.ProductRepository
	engine *pricing.Engine
}

// NewProductService creates the catalog service.
func NewProductService(repo repository.ProductRepository, engine *pricing.Engine) *ProductService {
	return &ProductService{repo: repo, engine: engine}
}

// CreateProductInput carries a new catalog item.
type CreateProductInput struct {
	ASIN        string
	Title       string
	Description string
	Brand       string
	Category    string
	Features    []string
	Specs       map[string]interface{}
	Images      []string
	AmazonPrice decimal.Decimal
	Rating      float64
	ReviewCount int
	IsPrime     bool
	BSR         int
	Status      string
}

// UpdateProductInput carries a partial update; nil fields are left
// untouched. A cost change triggers a full reprice.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Brand       *string
	Category    *string
	Features    []string
	Specs       map[string]interface{}
	Images      []string
	AmazonPrice *decimal.Decimal
	Rating      *float64
	ReviewCount *int
	IsPrime     *bool
	BSR         *int
	Status      *string
}

// Create validates boundary input, derives prices and demand fields,
// and inserts the product.
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	asin := pricing.NormalizeASIN(input.ASIN)
	if !pricing.IsValidASIN(asin) {
		return nil, ErrInvalidASIN
	}
	if input.Title == "" {
		return nil, ErrMissingTitle
	}
	if !input.AmazonPrice.IsPositive() {
		return nil, ErrInvalidCost
	}
	status := input.Status
	if status == "" {
		status = constants.ProductStatusPending
	}
	if !isValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	existing, err := s.repo.GetByASIN(asin)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateASIN
	}

	product := &models.Product{
		ASIN:        asin,
		Title:       input.Title,
		Description: input.Description,
		Brand:       input.Brand,
		Category:    input.Category,
		Features:    input.Features,
		Specs:       input.Specs,
		Images:      input.Images,
		AmazonPrice: models.NewMoneyFromDecimal(input.AmazonPrice),
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		IsPrime:     input.IsPrime,
		BSR:         input.BSR,
		Status:      status,
	}
	s.reprice(product)
	s.rescore(product, nil, nil)
	s.scheduleNextCheck(product, time.Now())

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	invalidateStats()
	return product, nil
}

// Update applies a partial update and re-derives pricing when the
// cost or demand inputs moved.
func (s *ProductService) Update(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrMissingTitle
		}
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.Specs != nil {
		product.Specs = input.Specs
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Status != nil {
		if !isValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		product.Status = *input.Status
	}

	repriceNeeded := false
	if input.AmazonPrice != nil {
		if !input.AmazonPrice.IsPositive() {
			return nil, ErrInvalidCost
		}
		product.AmazonPrice = models.NewMoneyFromDecimal(*input.AmazonPrice)
		repriceNeeded = true
	}

	rescoreNeeded := false
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.ReviewCount != nil {
		product.ReviewCount = *input.ReviewCount
	}
	if input.IsPrime != nil {
		product.IsPrime = *input.IsPrime
	}
	if input.BSR != nil {
		product.BSR = *input.BSR
		rescoreNeeded = true
	}

	if repriceNeeded {
		s.reprice(product)
	}
	if rescoreNeeded {
		s.rescore(product, nil, nil)
		s.scheduleNextCheck(product, time.Now())
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	invalidateStats()
	return product, nil
}

// Get fetches one product by id.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// GetByASIN fetches one product by ASIN.
func (s *ProductService) GetByASIN(asin string) (*models.Product, error) {
	product, err := s.repo.GetByASIN(pricing.NormalizeASIN(asin))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// List returns a filtered catalog page.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	for _, status := range filter.Statuses {
		if !isValidStatus(status) {
			return nil, 0, ErrInvalidStatus
		}
	}
	return s.repo.List(filter)
}

// Archive moves a product to the archived status, the soft removal
// path. Hard deletion stays behind Delete.
func (s *ProductService) Archive(id uint) error {
	affected, err := s.repo.UpdateStatus(id, constants.ProductStatusArchived)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	invalidateStats()
	return nil
}

// Delete removes a product permanently.
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	if err := s.repo.HardDelete(id); err != nil {
		return err
	}
	invalidateStats()
	return nil
}

// BulkItemOutcome is one item's result inside a bulk call.
type BulkItemOutcome struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkResult summarizes a partial-success bulk operation.
type BulkResult struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BulkItemOutcome `json:"items"`
}

// BulkUpdateStatus flips the status on up to BulkBatchMax products,
// recording a per-item outcome.
func (s *ProductService) BulkUpdateStatus(ids []uint, status string) (*BulkResult, error) {
	if len(ids) > constants.BulkBatchMax {
		return nil, ErrBatchTooLarge
	}
	if !isValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := &BulkResult{Total: len(ids)}
	for _, id := range ids {
		outcome := BulkItemOutcome{ID: id, Success: true}
		affected, err := s.repo.UpdateStatus(id, status)
		switch {
		case err != nil:
			outcome.Success = false
			outcome.Error = err.Error()
		case affected == 0:
			outcome.Success = false
			outcome.Error = ErrNotFound.Error()
		}
		if outcome.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, outcome)
	}
	invalidateStats()
	return result, nil
}

// BulkDelete hard-deletes up to BulkBatchMax products.
func (s *ProductService) BulkDelete(ids []uint) (*BulkResult, error) {
	if len(ids) > constants.BulkBatchMax {
		return nil, ErrBatchTooLarge
	}

	result := &BulkResult{Total: len(ids)}
	for _, id := range ids {
		outcome := BulkItemOutcome{ID: id, Success: true}
		if err := s.Delete(id); err != nil {
			outcome.Success = false
			outcome.Error = err.Error()
		}
		if outcome.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, outcome)
	}
	return result, nil
}

// CountByStatus exposes catalog totals for the dashboard, served from
// a short-lived cache when one is configured.
func (s *ProductService) CountByStatus() (map[string]int64, error) {
	ctx := context.Background()
	counts := map[string]int64{}
	if hit, err := cache.GetJSON(ctx, statsCacheKey, &counts); err == nil && hit {
		return counts, nil
	}

	counts, err := s.repo.CountByStatus()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, statsCacheKey, counts, statsCacheTTL); err != nil {
		logger.Debugw("stats_cache_set_failed", "error", err)
	}
	return counts, nil
}

func invalidateStats() {
	if err := cache.Del(context.Background(), statsCacheKey); err != nil {
		logger.Debugw("stats_cache_del_failed", "error", err)
	}
}

// reprice re-derives the retail price, competitor display prices, and
// margins from the current cost.
func (s *ProductService) reprice(product *models.Product) {
	cost := product.AmazonPrice.Decimal
	retail := s.engine.RetailPrice(cost)
	prices := s.engine.CompetitorPrices(retail)

	product.RetailPrice = models.NewMoneyFromDecimal(retail)
	product.CompareAtPrice = models.NewMoneyFromDecimal(prices.Amazon)
	product.AmazonDisplayPrice = models.NewMoneyFromDecimal(prices.Amazon)
	product.CostcoDisplayPrice = models.NewMoneyFromDecimal(prices.Costco)
	product.EbayDisplayPrice = models.NewMoneyFromDecimal(prices.Ebay)
	product.SamsDisplayPrice = models.NewMoneyFromDecimal(prices.Sams)
	product.WalmartDisplayPrice = models.NewMoneyFromDecimal(prices.Walmart)
	product.TargetDisplayPrice = models.NewMoneyFromDecimal(prices.Target)

	margin := retail.Sub(cost)
	product.ProfitMargin = models.NewMoneyFromDecimal(margin)
	if cost.IsPositive() {
		product.ProfitPercent, _ = margin.Div(cost).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	} else {
		product.ProfitPercent = 0
	}
}

// rescore re-derives the demand score, tier, and sales estimate from
// the current signals plus optional history.
func (s *ProductService) rescore(product *models.Product, bsrHistory []int, priceHistory []float64) {
	if bsrHistory == nil {
		bsrHistory = product.BSRHistory
	}
	product.DemandScore = s.engine.DemandScore(pricing.DemandSignals{
		BSR:           product.BSR,
		BSRHistory:    bsrHistory,
		PriceHistory:  priceHistory,
		RecentReviews: product.RecentReviews,
		TotalReviews:  product.ReviewCount,
	})
	product.DemandTier = s.engine.MeetsDemandCriteria(product.BSR, product.DemandScore).Tier
	product.MonthlySalesEstimate = s.engine.EstimateMonthlySales(product.BSR)
}

// scheduleNextCheck sets the refresh due date from the tighter of the
// price-based and demand-based cadences.
func (s *ProductService) scheduleNextCheck(product *models.Product, now time.Time) {
	days := s.engine.RefreshIntervalByDemand(product.DemandTier)
	if byPrice := s.engine.RefreshIntervalByPrice(product.RetailPrice.Decimal); byPrice < days {
		days = byPrice
	}
	next := now.AddDate(0, 0, days)
	product.NextPriceCheck = &next
}

func isValidStatus(status string) bool {
	for _, s := range constants.ProductStatuses {
		if s == status {
			return true
		}
	}
	return false
}
