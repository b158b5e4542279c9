package service

import (
	"context"
	"errors"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/cache"
	"github.com/hawk7227/dropshipping-management-sub002/internal/keepa"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"

	"github.com/shopspring/decimal"
)

// bsrHistoryKeep caps the rolling BSR window stored on the product.
const bsrHistoryKeep = 30

// HistoryProvider is the slice of the Keepa client refresh depends on.
type HistoryProvider interface {
	History(ctx context.Context, asin string) (*keepa.History, error)
	TokensPerMinute() int
}

// RefreshService re-pulls vendor signals for a product, re-scores it,
// re-prices it, and schedules the next check.
type RefreshService struct {
	products *ProductService
	repo     repository.ProductRepository
	history  repository.PriceHistoryRepository
	provider HistoryProvider
}

// NewRefreshService creates the refresh service.
func NewRefreshService(
	products *ProductService,
	repo repository.ProductRepository,
	history repository.PriceHistoryRepository,
	provider HistoryProvider,
) *RefreshService {
	return &RefreshService{products: products, repo: repo, history: history, provider: provider}
}

// RefreshOutcome reports what one refresh changed.
type RefreshOutcome struct {
	ProductID   uint    `json:"product_id"`
	ASIN        string  `json:"asin"`
	AmazonPrice string  `json:"amazon_price"`
	RetailPrice string  `json:"retail_price"`
	BSR         int     `json:"bsr"`
	DemandScore int     `json:"demand_score"`
	DemandTier  string  `json:"demand_tier"`
	NextCheckAt *string `json:"next_check_at,omitempty"`
	Skipped     bool    `json:"skipped"`
	SkipReason  string  `json:"skip_reason,omitempty"`
}

// Refresh re-pulls one product. A vendor gap (no history) is a skip,
// not a failure: the product keeps its current signals and is pushed
// to the default cadence.
func (s *RefreshService) Refresh(ctx context.Context, productID uint) (*RefreshOutcome, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	if _, err := cache.ConsumeTokens(ctx, "keepa", 1, s.provider.TokensPerMinute()); err != nil {
		logger.Warnw("token_usage_record_failed", "provider", "keepa", "error", err)
	}
	signals, err := s.provider.History(ctx, product.ASIN)
	if errors.Is(err, keepa.ErrNoHistory) {
		s.products.scheduleNextCheck(product, now)
		product.LastPriceCheck = &now
		if err := s.repo.Update(product); err != nil {
			return nil, err
		}
		logger.Warnw("price_refresh_skipped", "asin", product.ASIN, "reason", "no_history")
		return s.outcome(product, true, "no vendor history"), nil
	}
	if err != nil {
		return nil, err
	}

	if signals.CurrentPrice > 0 {
		product.AmazonPrice = models.NewMoneyFromDecimal(decimal.NewFromFloat(signals.CurrentPrice))
	}
	if signals.CurrentBSR > 0 {
		product.BSR = signals.CurrentBSR
	}
	if signals.Rating > 0 {
		product.Rating = signals.Rating
	}
	if signals.ReviewCount > 0 {
		product.ReviewCount = signals.ReviewCount
	}
	product.BSRHistory = trimHistory(signals.BSRHistory, bsrHistoryKeep)

	s.products.reprice(product)
	s.products.rescore(product, product.BSRHistory, signals.PriceHistory)
	product.LastPriceCheck = &now
	s.products.scheduleNextCheck(product, now)

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	if err := s.history.Append(&models.PriceHistory{
		ProductID:   product.ID,
		ASIN:        product.ASIN,
		AmazonPrice: product.AmazonPrice,
		BSR:         product.BSR,
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		RecordedAt:  now,
	}); err != nil {
		logger.Errorw("price_history_append_failed", "asin", product.ASIN, "error", err)
	}

	logger.Infow("price_refresh_done",
		"asin", product.ASIN,
		"amazon_price", product.AmazonPrice.String(),
		"bsr", product.BSR,
		"demand_score", product.DemandScore,
		"demand_tier", product.DemandTier,
	)
	return s.outcome(product, false, ""), nil
}

// RefreshDue refreshes every product whose next check has passed,
// sequentially, accumulating per-item outcomes.
func (s *RefreshService) RefreshDue(ctx context.Context, limit int) ([]RefreshOutcome, error) {
	due, err := s.repo.ListDueForRefresh(time.Now(), limit)
	if err != nil {
		return nil, err
	}

	outcomes := make([]RefreshOutcome, 0, len(due))
	for i := range due {
		outcome, err := s.Refresh(ctx, due[i].ID)
		if err != nil {
			logger.Errorw("price_refresh_failed", "asin", due[i].ASIN, "error", err)
			outcomes = append(outcomes, RefreshOutcome{
				ProductID:  due[i].ID,
				ASIN:       due[i].ASIN,
				Skipped:    true,
				SkipReason: err.Error(),
			})
			continue
		}
		outcomes = append(outcomes, *outcome)
	}
	return outcomes, nil
}

func (s *RefreshService) outcome(product *models.Product, skipped bool, reason string) *RefreshOutcome {
	outcome := &RefreshOutcome{
		ProductID:   product.ID,
		ASIN:        product.ASIN,
		AmazonPrice: product.AmazonPrice.String(),
		RetailPrice: product.RetailPrice.String(),
		BSR:         product.BSR,
		DemandScore: product.DemandScore,
		DemandTier:  product.DemandTier,
		Skipped:     skipped,
		SkipReason:  reason,
	}
	if product.NextPriceCheck != nil {
		next := product.NextPriceCheck.Format(time.RFC3339)
		outcome.NextCheckAt = &next
	}
	return outcome
}

func trimHistory(history []int, keep int) []int {
	if len(history) <= keep {
		return history
	}
	return history[len(history)-keep:]
}
