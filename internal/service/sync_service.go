package service

import (
	"context"
	"strconv"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/export"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/shopify"
)

// ProductPusher is the slice of the Shopify client sync depends on.
type ProductPusher interface {
	CreateProduct(ctx context.Context, input shopify.ProductInput) (*shopify.ProductResult, error)
	UpdateProduct(ctx context.Context, productID int64, input shopify.ProductInput) (*shopify.ProductResult, error)
	SetMetafield(ctx context.Context, productID int64, field shopify.Metafield) error
}

// SyncService pushes catalog products to the Shopify store and records
// every attempt in the sync log.
type SyncService struct {
	repo   repository.ProductRepository
	logs   repository.SyncLogRepository
	pusher ProductPusher
	cfg    config.ExportConfig
}

// NewSyncService creates the sync service.
func NewSyncService(
	repo repository.ProductRepository,
	logs repository.SyncLogRepository,
	pusher ProductPusher,
	cfg config.ExportConfig,
) *SyncService {
	return &SyncService{repo: repo, logs: logs, pusher: pusher, cfg: cfg}
}

// SyncOutcome is one product's push result.
type SyncOutcome struct {
	ProductID        uint   `json:"product_id"`
	ASIN             string `json:"asin"`
	Action           string `json:"action"`
	ShopifyProductID int64  `json:"shopify_product_id,omitempty"`
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`
}

// SyncAllResult summarizes a sequential partial-success sync run.
type SyncAllResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Items     []SyncOutcome `json:"items"`
}

// Sync pushes one product. New products are created with metafields
// inline; existing products get a PUT plus one metafield call each,
// because Shopify's product update drops inline metafields.
func (s *SyncService) Sync(ctx context.Context, productID uint) (*SyncOutcome, error) {
	if s.pusher == nil {
		return nil, ErrNoProvider
	}
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !isSyncable(product.Status) {
		return nil, ErrNotSyncable
	}

	action := constants.SyncActionCreate
	if product.ShopifyProductID > 0 {
		action = constants.SyncActionUpdate
	}
	outcome := &SyncOutcome{ProductID: product.ID, ASIN: product.ASIN, Action: action}

	input := s.buildInput(product)
	var result *shopify.ProductResult
	var pushErr error
	if action == constants.SyncActionCreate {
		result, pushErr = s.pusher.CreateProduct(ctx, input)
	} else {
		result, pushErr = s.pusher.UpdateProduct(ctx, product.ShopifyProductID, input)
		if pushErr == nil {
			for _, field := range s.metafields(product) {
				if err := s.pusher.SetMetafield(ctx, product.ShopifyProductID, field); err != nil {
					pushErr = err
					break
				}
			}
		}
	}

	if pushErr != nil {
		outcome.Error = pushErr.Error()
		s.appendLog(product, action, constants.SyncStatusFailed, 0, pushErr.Error())
		logger.Errorw("shopify_sync_failed", "asin", product.ASIN, "action", action, "error", pushErr)
		return outcome, nil
	}

	now := time.Now()
	if err := s.repo.MarkSynced(product.ID, result.ProductID, result.VariantID, now); err != nil {
		return nil, err
	}
	outcome.Success = true
	outcome.ShopifyProductID = result.ProductID
	s.appendLog(product, action, constants.SyncStatusSuccess, result.ProductID, "")
	logger.Infow("shopify_sync_done", "asin", product.ASIN, "action", action, "shopify_product_id", result.ProductID)
	return outcome, nil
}

// SyncAll pushes every syncable product sequentially. Per-item push
// failures are accumulated; only infrastructure errors abort the run.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncAllResult, error) {
	products, _, err := s.repo.List(repository.ProductListFilter{
		Statuses: []string{constants.ProductStatusActive, constants.ProductStatusPaused},
		OrderBy:  "id ASC",
	})
	if err != nil {
		return nil, err
	}

	result := &SyncAllResult{Total: len(products)}
	for i := range products {
		outcome, err := s.Sync(ctx, products[i].ID)
		if err != nil {
			outcome = &SyncOutcome{
				ProductID: products[i].ID,
				ASIN:      products[i].ASIN,
				Error:     err.Error(),
			}
		}
		if outcome.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, *outcome)
	}

	logger.Infow("shopify_sync_all_done",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *SyncService) buildInput(product *models.Product) shopify.ProductInput {
	input := shopify.ProductInput{
		Title:    product.Title,
		BodyHTML: export.BodyHTML(product),
		Vendor:   s.cfg.Vendor,
		Tags:     export.Tags(product),
		Status:   shopifyPushStatus(product.Status),
		Variants: []shopify.Variant{{
			SKU:               product.ASIN,
			Price:             product.RetailPrice.String(),
			CompareAtPrice:    product.CompareAtPrice.String(),
			InventoryPolicy:   "deny",
			InventoryQuantity: 100,
		}},
	}
	for _, src := range product.Images {
		input.Images = append(input.Images, shopify.Image{Src: src, Alt: product.Title})
	}
	if s.cfg.IncludeMetafields {
		input.Metafields = s.metafields(product)
	}
	return input
}

func (s *SyncService) metafields(product *models.Product) []shopify.Metafield {
	if !s.cfg.IncludeMetafields {
		return nil
	}
	text := func(key, value string) shopify.Metafield {
		return shopify.Metafield{
			Namespace: "custom",
			Key:       key,
			Value:     value,
			Type:      "single_line_text_field",
		}
	}
	number := func(key string, value int) shopify.Metafield {
		return shopify.Metafield{
			Namespace: "custom",
			Key:       key,
			Value:     strconv.Itoa(value),
			Type:      "number_integer",
		}
	}
	return []shopify.Metafield{
		text("asin", product.ASIN),
		text("amazon_price", product.AmazonPrice.String()),
		text("amazon_url", "https://www.amazon.com/dp/"+product.ASIN),
		number("bsr", product.BSR),
		number("demand_score", product.DemandScore),
		text("demand_tier", product.DemandTier),
		number("monthly_sales", product.MonthlySalesEstimate),
		text("rating", strconv.FormatFloat(product.Rating, 'f', 1, 64)),
		number("review_count", product.ReviewCount),
	}
}

func (s *SyncService) appendLog(product *models.Product, action, status string, shopifyProductID int64, message string) {
	if err := s.logs.Create(&models.SyncLog{
		ProductID:        product.ID,
		ASIN:             product.ASIN,
		Action:           action,
		Status:           status,
		ShopifyProductID: shopifyProductID,
		Error:            message,
	}); err != nil {
		logger.Errorw("sync_log_append_failed", "asin", product.ASIN, "error", err)
	}
}

func isSyncable(status string) bool {
	return status == constants.ProductStatusActive || status == constants.ProductStatusPaused
}

// shopifyPushStatus maps our statuses onto Shopify's product status.
func shopifyPushStatus(status string) string {
	if status == constants.ProductStatusActive {
		return "active"
	}
	return "draft"
}
