package constants

// Product lifecycle statuses
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusPaused   = "paused"
	ProductStatusArchived = "archived"
	ProductStatusPending  = "pending"
	ProductStatusRejected = "rejected"
)

// ProductStatuses lists every valid product status.
var ProductStatuses = []string{
	ProductStatusActive,
	ProductStatusDraft,
	ProductStatusPaused,
	ProductStatusArchived,
	ProductStatusPending,
	ProductStatusRejected,
}

// Demand tiers (ordered by decreasing eligibility bar)
const (
	DemandTierHigh   = "high"
	DemandTierMedium = "medium"
	DemandTierLow    = "low"
	DemandTierReject = "reject"
)

// Competitor display price slots
const (
	CompetitorAmazon  = "amazon"
	CompetitorCostco  = "costco"
	CompetitorEbay    = "ebay"
	CompetitorSams    = "sams"
	CompetitorWalmart = "walmart"
	CompetitorTarget  = "target"
)

// Competitors lists the display-price slots in stable order.
var Competitors = []string{
	CompetitorAmazon,
	CompetitorCostco,
	CompetitorEbay,
	CompetitorSams,
	CompetitorWalmart,
	CompetitorTarget,
}

// Shopify sync statuses recorded in sync logs
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// Shopify sync actions
const (
	SyncActionCreate = "create"
	SyncActionUpdate = "update"
)

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// Queue constants
const (
	QueueDefault        = "default"
	TaskPriceRefresh    = "price:refresh"
	TaskShopifySync     = "shopify:sync"
	TaskDiscoveryImport = "discovery:import"
)

// Cache defaults
const (
	RedisPrefixDefault = "ds"
)

// Bulk operation limits
const (
	BulkBatchMax = 100
)
