package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/provider"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the async catalog tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPriceRefresh, c.handlePriceRefresh)
	mux.HandleFunc(queue.TaskShopifySync, c.handleShopifySync)
	mux.HandleFunc(queue.TaskDiscoveryImport, c.handleDiscoveryImport)
}

func (c *Consumer) handlePriceRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_price_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PriceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_price_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_price_refresh_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	outcome, err := c.RefreshService.Refresh(ctx, payload.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_price_refresh_skip_product_not_found", "product_id", payload.ProductID)
			return nil
		case errors.Is(err, service.ErrNoProvider):
			logger.Warnw("worker_price_refresh_skip_no_provider", "product_id", payload.ProductID)
			return nil
		default:
			logger.Warnw("worker_price_refresh_failed", "product_id", payload.ProductID, "error", err)
			return err
		}
	}
	if outcome.Skipped {
		logger.Debugw("worker_price_refresh_skipped", "product_id", payload.ProductID, "reason", outcome.SkipReason)
	}
	return nil
}

func (c *Consumer) handleShopifySync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shopify_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ShopifySyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_shopify_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_shopify_sync_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	outcome, err := c.SyncService.Sync(ctx, payload.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_shopify_sync_skip_product_not_found", "product_id", payload.ProductID)
			return nil
		case errors.Is(err, service.ErrNotSyncable):
			logger.Debugw("worker_shopify_sync_skip_not_syncable", "product_id", payload.ProductID)
			return nil
		case errors.Is(err, service.ErrNoProvider):
			logger.Warnw("worker_shopify_sync_skip_no_provider", "product_id", payload.ProductID)
			return nil
		default:
			logger.Warnw("worker_shopify_sync_failed", "product_id", payload.ProductID, "error", err)
			return err
		}
	}
	if !outcome.Success {
		// Push failures are recorded in the sync log; retry via asynq.
		logger.Warnw("worker_shopify_sync_push_failed", "product_id", payload.ProductID, "error", outcome.Error)
		return errors.New(outcome.Error)
	}
	return nil
}

func (c *Consumer) handleDiscoveryImport(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_discovery_import_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DiscoveryImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_discovery_import_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.Items) == 0 {
		logger.Debugw("worker_discovery_import_skip_empty_batch", "term", payload.Term)
		return nil
	}
	items := make([]service.ImportItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, service.ImportItem{
			ASIN:        item.ASIN,
			Title:       item.Title,
			Brand:       item.Brand,
			Category:    item.Category,
			Description: item.Description,
			Images:      imageList(item.ImageURL),
			Price:       item.Price,
			Rating:      item.Rating,
			ReviewCount: item.ReviewCount,
			IsPrime:     item.IsPrime,
			BSR:         item.BSR,
		})
	}
	result, err := c.DiscoveryService.Import(items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchTooLarge):
			logger.Warnw("worker_discovery_import_skip_batch_too_large", "term", payload.Term, "count", len(items))
			return nil
		default:
			logger.Warnw("worker_discovery_import_failed", "term", payload.Term, "error", err)
			return err
		}
	}
	logger.Infow("worker_discovery_import_done",
		"term", payload.Term,
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return nil
}

func imageList(url string) []string {
	if url == "" {
		return nil
	}
	return []string{url}
}
