package main

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	engine := pricing.NewEngine(pricing.FromConfig(cfg))
	products := service.NewProductService(repository.NewProductRepository(models.DB), engine)

	samples := []service.CreateProductInput{
		{
			ASIN:        "B0SEED0001",
			Title:       "Gooseneck Pour Over Kettle 40oz",
			Description: "Stainless steel kettle with a precision spout for pour over brewing.",
			Brand:       "BrewCraft",
			Category:    "Kitchen & Dining",
			Features:    []string{"40oz capacity", "Thermometer built into the lid", "Triple-layer base"},
			Specs:       map[string]interface{}{"Capacity": "40oz", "Material": "Stainless Steel"},
			Images:      []string{"https://img.example.com/b0seed00001.jpg"},
			AmazonPrice: decimal.NewFromFloat(24.99),
			Rating:      4.6,
			ReviewCount: 1250,
			IsPrime:     true,
			BSR:         8500,
			Status:      "active",
		},
		{
			ASIN:        "B0SEED0002",
			Title:       "Collapsible Silicone Dog Travel Bowl Set",
			Description: "Two collapsible bowls with carabiner clips for hikes and travel.",
			Brand:       "TrailPup",
			Category:    "Pet Supplies",
			Features:    []string{"Food-grade silicone", "Folds flat", "Dishwasher safe"},
			Specs:       map[string]interface{}{"Capacity": "24oz", "Count": "2"},
			Images:      []string{"https://img.example.com/b0seed00002.jpg"},
			AmazonPrice: decimal.NewFromFloat(11.49),
			Rating:      4.4,
			ReviewCount: 430,
			IsPrime:     true,
			BSR:         32000,
			Status:      "active",
		},
		{
			ASIN:        "B0SEED0003",
			Title:       "LED Book Light with Clip",
			Description: "Rechargeable reading light with three color temperatures.",
			Brand:       "NightPage",
			Category:    "Home & Kitchen",
			Features:    []string{"USB-C charging", "Three brightness levels", "Flexible neck"},
			Specs:       map[string]interface{}{"Battery": "1000mAh"},
			Images:      []string{"https://img.example.com/b0seed00003.jpg"},
			AmazonPrice: decimal.NewFromFloat(9.99),
			Rating:      4.2,
			ReviewCount: 180,
			IsPrime:     false,
			BSR:         95000,
		},
	}

	for _, sample := range samples {
		product, err := products.Create(sample)
		if err != nil {
			if err == service.ErrDuplicateASIN {
				stdLog.Printf("Product already exists: %s", sample.ASIN)
				continue
			}
			stdLog.Printf("Failed to create product %s: %v", sample.ASIN, err)
			continue
		}
		stdLog.Printf("Created product %s (retail %s, tier %s)",
			product.ASIN, product.RetailPrice.String(), product.DemandTier)
	}
}
