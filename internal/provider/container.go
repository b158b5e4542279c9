package provider

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/cache"
	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/keepa"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"
	"github.com/hawk7227/dropshipping-management-sub002/internal/rainforest"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"
	"github.com/hawk7227/dropshipping-management-sub002/internal/shopify"
)

// Container wires every repository, client, and service once at boot.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Engine      *pricing.Engine

	// Repositories
	ProductRepo      repository.ProductRepository
	PriceHistoryRepo repository.PriceHistoryRepository
	SyncLogRepo      repository.SyncLogRepository

	// Vendor clients, nil when unconfigured
	ShopifyClient    *shopify.Client
	RainforestClient *rainforest.Client
	KeepaClient      *keepa.Client

	// Services
	ProductService   *service.ProductService
	ExportService    *service.ExportService
	DiscoveryService *service.DiscoveryService
	RefreshService   *service.RefreshService
	SyncService      *service.SyncService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Engine:      pricing.NewEngine(pricing.FromConfig(cfg)),
	}

	c.initRepositories()
	c.initClients()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.PriceHistoryRepo = repository.NewPriceHistoryRepository(db)
	c.SyncLogRepo = repository.NewSyncLogRepository(db)
}

// initClients builds the vendor clients. Missing credentials leave the
// client nil; the dependent service then refuses its operations with
// service.ErrNoProvider instead of blocking boot.
func (c *Container) initClients() {
	cfg := c.Config

	if cfg.Shopify.AccessToken != "" {
		client, err := shopify.NewClient(shopify.Config{
			StoreDomain: cfg.Shopify.StoreDomain,
			AccessToken: cfg.Shopify.AccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
			TimeoutMS:   cfg.Shopify.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_shopify_failed", "error", err)
		} else {
			c.ShopifyClient = client
		}
	}

	if cfg.Rainforest.APIKey != "" {
		client, err := rainforest.NewClient(rainforest.Config{
			BaseURL:         cfg.Rainforest.BaseURL,
			APIKey:          cfg.Rainforest.APIKey,
			TokensPerMinute: cfg.Rainforest.TokensPerMinute,
			CostPerToken:    cfg.Rainforest.CostPerToken,
			TimeoutMS:       cfg.Rainforest.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_rainforest_failed", "error", err)
		} else {
			c.RainforestClient = client
		}
	}

	if cfg.Keepa.APIKey != "" {
		client, err := keepa.NewClient(keepa.Config{
			BaseURL:         cfg.Keepa.BaseURL,
			APIKey:          cfg.Keepa.APIKey,
			Domain:          cfg.Keepa.Domain,
			TokensPerMinute: cfg.Keepa.TokensPerMinute,
			CostPerToken:    cfg.Keepa.CostPerToken,
			TimeoutMS:       cfg.Keepa.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_keepa_failed", "error", err)
		} else {
			c.KeepaClient = client
		}
	}
}

func (c *Container) initServices() {
	c.ProductService = service.NewProductService(c.ProductRepo, c.Engine)
	c.ExportService = service.NewExportService(c.ProductRepo, c.Config.Export)

	var searcher service.ProductSearcher
	if c.RainforestClient != nil {
		searcher = c.RainforestClient
	}
	c.DiscoveryService = service.NewDiscoveryService(c.ProductService, searcher, c.Engine)

	var history service.HistoryProvider
	if c.KeepaClient != nil {
		history = c.KeepaClient
	}
	c.RefreshService = service.NewRefreshService(c.ProductService, c.ProductRepo, c.PriceHistoryRepo, history)

	var pusher service.ProductPusher
	if c.ShopifyClient != nil {
		pusher = c.ShopifyClient
	}
	c.SyncService = service.NewSyncService(c.ProductRepo, c.SyncLogRepo, pusher, c.Config.Export)
}
