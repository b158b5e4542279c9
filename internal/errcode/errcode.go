package errcode

import "fmt"

// Code is a stable machine-readable error identifier. Codes are
// grouped by subsystem prefix so operators can route an alert without
// reading the message.
type Code string

const (
	// Database
	DBConnectionFailed Code = "DB_CONNECTION_FAILED"
	DBMigrationFailed  Code = "DB_MIGRATION_FAILED"
	DBQueryFailed      Code = "DB_QUERY_FAILED"
	DBDuplicateASIN    Code = "DB_DUPLICATE_ASIN"

	// Configuration
	ConfigLoadFailed   Code = "CONFIG_LOAD_FAILED"
	ConfigRulesInvalid Code = "CONFIG_RULES_INVALID"
	ConfigMissingKey   Code = "CONFIG_MISSING_KEY"

	// Shopify
	ShopAuthFailed      Code = "SHOP_AUTH_FAILED"
	ShopRateLimited     Code = "SHOP_RATE_LIMITED"
	ShopProductNotFound Code = "SHOP_PRODUCT_NOT_FOUND"
	ShopSyncFailed      Code = "SHOP_SYNC_FAILED"

	// Discovery (Rainforest)
	DiscSearchFailed   Code = "DISC_SEARCH_FAILED"
	DiscQuotaExceeded  Code = "DISC_QUOTA_EXCEEDED"
	DiscEmptyResults   Code = "DISC_EMPTY_RESULTS"
	DiscInvalidFilters Code = "DISC_INVALID_FILTERS"

	// Keepa
	KeepaRequestFailed Code = "KEEPA_REQUEST_FAILED"
	KeepaTokensDrained Code = "KEEPA_TOKENS_DRAINED"
	KeepaNoHistory     Code = "KEEPA_NO_HISTORY"

	// Import
	ImportBatchTooLarge Code = "IMPORT_BATCH_TOO_LARGE"
	ImportPartialFail   Code = "IMPORT_PARTIAL_FAIL"

	// Queue
	QueueEnqueueFailed Code = "QUEUE_ENQUEUE_FAILED"
	QueueRedisDown     Code = "QUEUE_REDIS_DOWN"

	// Price calculation
	PriceCalcInvalidCost Code = "PRICE_CALC_INVALID_COST"
	PriceCalcBandClamped Code = "PRICE_CALC_BAND_CLAMPED"

	// Validation
	ValidInvalidASIN   Code = "VALID_INVALID_ASIN"
	ValidMissingField  Code = "VALID_MISSING_FIELD"
	ValidBadStatus     Code = "VALID_BAD_STATUS"
	ValidBadPagination Code = "VALID_BAD_PAGINATION"

	// Product
	ProdNotFound      Code = "PROD_NOT_FOUND"
	ProdAlreadyExists Code = "PROD_ALREADY_EXISTS"
	ProdNotSyncable   Code = "PROD_NOT_SYNCABLE"
)

// Entry pairs an operator-facing message with a remediation hint.
type Entry struct {
	Message    string
	Suggestion string
}

var registry = map[Code]Entry{
	DBConnectionFailed: {
		Message:    "database connection failed",
		Suggestion: "check database.dsn and that the database is reachable",
	},
	DBMigrationFailed: {
		Message:    "schema migration failed",
		Suggestion: "inspect the migration error and the current schema version",
	},
	DBQueryFailed: {
		Message:    "database query failed",
		Suggestion: "retry once; if persistent, check database health and locks",
	},
	DBDuplicateASIN: {
		Message:    "a product with this ASIN already exists",
		Suggestion: "use the update endpoint or delete the existing product first",
	},
	ConfigLoadFailed: {
		Message:    "configuration could not be loaded",
		Suggestion: "verify config.yaml syntax and environment variable overrides",
	},
	ConfigRulesInvalid: {
		Message:    "pricing rules failed startup validation",
		Suggestion: "fix the reported rule errors; the process will not start until they pass",
	},
	ConfigMissingKey: {
		Message:    "a required configuration key is missing",
		Suggestion: "set the key in config.yaml or via its environment variable",
	},
	ShopAuthFailed: {
		Message:    "Shopify rejected the access token",
		Suggestion: "rotate shopify.access_token and confirm the app scopes",
	},
	ShopRateLimited: {
		Message:    "Shopify API rate limit hit",
		Suggestion: "the job retries with backoff; reduce sync concurrency if it persists",
	},
	ShopProductNotFound: {
		Message:    "Shopify product no longer exists",
		Suggestion: "clear the stored shopify_product_id and re-sync to recreate it",
	},
	ShopSyncFailed: {
		Message:    "Shopify sync failed",
		Suggestion: "check the sync log entry for the underlying API error",
	},
	DiscSearchFailed: {
		Message:    "Rainforest search request failed",
		Suggestion: "verify rainforest.api_key and the upstream status page",
	},
	DiscQuotaExceeded: {
		Message:    "Rainforest request quota exceeded",
		Suggestion: "wait for the quota window to reset or raise the plan limit",
	},
	DiscEmptyResults: {
		Message:    "discovery search returned no results",
		Suggestion: "broaden the search term or relax the discovery filters",
	},
	DiscInvalidFilters: {
		Message:    "discovery filters are invalid",
		Suggestion: "ensure price min is below max and thresholds are non-negative",
	},
	KeepaRequestFailed: {
		Message:    "Keepa price history request failed",
		Suggestion: "verify keepa.api_key and retry; Keepa outages are usually short",
	},
	KeepaTokensDrained: {
		Message:    "Keepa token bucket is empty",
		Suggestion: "refresh jobs back off automatically; lower the refresh cadence if chronic",
	},
	KeepaNoHistory: {
		Message:    "Keepa has no history for this ASIN",
		Suggestion: "the product keeps its current score; re-check after a few days",
	},
	ImportBatchTooLarge: {
		Message:    "import batch exceeds the maximum size",
		Suggestion: "split the request into batches of at most 100 items",
	},
	ImportPartialFail: {
		Message:    "some items in the import batch failed",
		Suggestion: "inspect the per-item results; successful items were committed",
	},
	QueueEnqueueFailed: {
		Message:    "failed to enqueue background task",
		Suggestion: "check Redis connectivity; the operation can be retried safely",
	},
	QueueRedisDown: {
		Message:    "Redis is unreachable",
		Suggestion: "check redis.addr and the Redis process; queued work resumes on reconnect",
	},
	PriceCalcInvalidCost: {
		Message:    "cost price must be positive",
		Suggestion: "fix the amazon_price on the product before repricing",
	},
	PriceCalcBandClamped: {
		Message:    "computed retail price was clamped to the price band",
		Suggestion: "review the cost; clamped items may no longer meet the profit floor",
	},
	ValidInvalidASIN: {
		Message:    "ASIN is malformed",
		Suggestion: "an ASIN is the letter B followed by nine letters or digits",
	},
	ValidMissingField: {
		Message:    "a required field is missing",
		Suggestion: "see the error detail for the field name",
	},
	ValidBadStatus: {
		Message:    "unknown product status",
		Suggestion: "use one of: active, draft, paused, archived, pending, rejected",
	},
	ValidBadPagination: {
		Message:    "pagination parameters are invalid",
		Suggestion: "page starts at 1 and page_size must be between 1 and 100",
	},
	ProdNotFound: {
		Message:    "product not found",
		Suggestion: "the id may be wrong or the product was deleted",
	},
	ProdAlreadyExists: {
		Message:    "product already exists",
		Suggestion: "look it up by ASIN instead of creating a duplicate",
	},
	ProdNotSyncable: {
		Message:    "product is not in a syncable status",
		Suggestion: "only active and paused products can be pushed to Shopify",
	},
}

// Lookup returns the registry entry for a code. Unregistered codes get
// a generic entry rather than a panic so a missed registration never
// masks the original failure.
func Lookup(code Code) Entry {
	if entry, ok := registry[code]; ok {
		return entry
	}
	return Entry{
		Message:    "unexpected error",
		Suggestion: "check the service logs for details",
	}
}

// Error carries a registry code alongside the underlying cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	entry := Lookup(e.Code)
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, entry.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, entry.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with no underlying cause.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Wrap attaches a code to an underlying error.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}
