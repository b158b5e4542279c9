package queue

import (
	"encoding/json"

	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPriceRefresh refreshes one product's price/BSR signals.
	TaskPriceRefresh = constants.TaskPriceRefresh
	// TaskShopifySync pushes one product to the Shopify store.
	TaskShopifySync = constants.TaskShopifySync
	// TaskDiscoveryImport imports a batch of discovery candidates.
	TaskDiscoveryImport = constants.TaskDiscoveryImport
)

// PriceRefreshPayload identifies the product to refresh.
type PriceRefreshPayload struct {
	ProductID uint `json:"product_id"`
}

// ShopifySyncPayload identifies the product to sync.
type ShopifySyncPayload struct {
	ProductID uint `json:"product_id"`
}

// DiscoveryImportItem is one candidate row carried by an import task.
type DiscoveryImportItem struct {
	ASIN        string  `json:"asin"`
	Title       string  `json:"title"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	IsPrime     bool    `json:"is_prime"`
	BSR         int     `json:"bsr"`
}

// DiscoveryImportPayload carries the candidate batch to import.
type DiscoveryImportPayload struct {
	Term  string                `json:"term"`
	Items []DiscoveryImportItem `json:"items"`
}

// NewPriceRefreshTask builds a price refresh task.
func NewPriceRefreshTask(payload PriceRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPriceRefresh, body), nil
}

// NewShopifySyncTask builds a Shopify sync task.
func NewShopifySyncTask(payload ShopifySyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShopifySync, body), nil
}

// NewDiscoveryImportTask builds a discovery import task.
func NewDiscoveryImportTask(payload DiscoveryImportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDiscoveryImport, body), nil
}
