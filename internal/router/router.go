package router

import (
	"fmt"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/cache"
	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/handlers"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the dashboard API.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ds"
	}
	redisClient := cache.Client()
	// Discovery searches spend vendor tokens, so they get a throttle.
	discoveryRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:discovery", redisPrefix),
		WindowSeconds: cfg.Security.DiscoveryRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.DiscoveryRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		products := apiV1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("", handler.CreateProduct)
			products.GET("/stats", handler.ProductStats)
			products.POST("/bulk/status", handler.BulkUpdateStatus)
			products.POST("/bulk/delete", handler.BulkDelete)
			products.GET("/:id", handler.GetProduct)
			products.PUT("/:id", handler.UpdateProduct)
			products.DELETE("/:id", handler.DeleteProduct)
			products.POST("/:id/archive", handler.ArchiveProduct)
			products.GET("/:id/price-history", handler.ProductPriceHistory)
			products.POST("/:id/sync", handler.SyncProduct)
			products.POST("/:id/refresh", handler.RefreshProduct)
		}

		export := apiV1.Group("/export")
		{
			export.GET("/shopify", handler.ExportShopify)
			export.POST("/shopify", handler.ExportShopify)
			export.GET("/master", handler.ExportMaster)
			export.POST("/master", handler.ExportMaster)
		}

		discovery := apiV1.Group("/discovery")
		{
			discovery.GET("/search", RateLimitMiddleware(redisClient, discoveryRule, KeyByIP), handler.DiscoverySearch)
			discovery.POST("/import", handler.DiscoveryImport)
		}

		sync := apiV1.Group("/sync")
		{
			sync.POST("/all", handler.SyncAll)
			sync.GET("/logs", handler.SyncLogs)
		}

		refresh := apiV1.Group("/refresh")
		{
			refresh.POST("/due", handler.RefreshDue)
		}

		pricing := apiV1.Group("/pricing")
		{
			pricing.POST("/preview", handler.PricingPreview)
			pricing.GET("/rules", handler.PricingRules)
		}
	}

	return r
}
