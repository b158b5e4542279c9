package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a sourced catalog item.
type Product struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	ASIN        string      `gorm:"type:varchar(10);uniqueIndex;not null" json:"asin"` // uppercase-normalized
	Title       string      `gorm:"type:varchar(500);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Brand       string      `gorm:"type:varchar(200);index" json:"brand"`
	Category    string      `gorm:"type:varchar(200);index" json:"category"`
	Features    StringArray `gorm:"type:json" json:"features"`
	Specs       JSON        `gorm:"type:json" json:"specs"`
	Images      StringArray `gorm:"type:json" json:"images"`

	// Pricing
	AmazonPrice         Money   `gorm:"type:decimal(20,2);not null;default:0" json:"amazon_price"` // sourcing cost
	RetailPrice         Money   `gorm:"type:decimal(20,2);not null;default:0" json:"retail_price"`
	CompareAtPrice      Money   `gorm:"type:decimal(20,2);default:0" json:"compare_at_price"`
	AmazonDisplayPrice  Money   `gorm:"type:decimal(20,2);default:0" json:"amazon_display_price"`
	CostcoDisplayPrice  Money   `gorm:"type:decimal(20,2);default:0" json:"costco_display_price"`
	EbayDisplayPrice    Money   `gorm:"type:decimal(20,2);default:0" json:"ebay_display_price"`
	SamsDisplayPrice    Money   `gorm:"type:decimal(20,2);default:0" json:"sams_display_price"`
	WalmartDisplayPrice Money   `gorm:"type:decimal(20,2);default:0" json:"walmart_display_price"`
	TargetDisplayPrice  Money   `gorm:"type:decimal(20,2);default:0" json:"target_display_price"`
	ProfitMargin        Money   `gorm:"type:decimal(20,2);default:0" json:"profit_margin"`
	ProfitPercent       float64 `gorm:"default:0" json:"profit_percent"`

	// Demand signals
	Rating               float64  `gorm:"default:0" json:"rating"`
	ReviewCount          int      `gorm:"default:0" json:"review_count"`
	RecentReviews        int      `gorm:"default:0" json:"recent_reviews"`
	IsPrime              bool     `gorm:"default:false" json:"is_prime"`
	BSR                  int      `gorm:"index;default:0" json:"bsr"`
	BSRHistory           IntArray `gorm:"type:json" json:"bsr_history"`
	DemandScore          int      `gorm:"index;default:0" json:"demand_score"` // 0-100
	DemandTier           string   `gorm:"type:varchar(20);index;default:'reject'" json:"demand_tier"`
	MonthlySalesEstimate int      `gorm:"default:0" json:"monthly_sales_estimate"`

	// Lifecycle
	Status         string     `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	LastPriceCheck *time.Time `json:"last_price_check"`
	NextPriceCheck *time.Time `gorm:"index" json:"next_price_check"`

	// Shopify linkage
	ShopifyProductID int64      `gorm:"index;default:0" json:"shopify_product_id"`
	ShopifyVariantID int64      `gorm:"default:0" json:"shopify_variant_id"`
	ShopifySyncedAt  *time.Time `json:"shopify_synced_at"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// CompetitorPriceFor returns the stored display price for a competitor slot.
func (p *Product) CompetitorPriceFor(competitor string) Money {
	switch competitor {
	case "amazon":
		return p.AmazonDisplayPrice
	case "costco":
		return p.CostcoDisplayPrice
	case "ebay":
		return p.EbayDisplayPrice
	case "sams":
		return p.SamsDisplayPrice
	case "walmart":
		return p.WalmartDisplayPrice
	case "target":
		return p.TargetDisplayPrice
	default:
		return Money{}
	}
}
