package export

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
)

// shopifyHeader is the fixed Shopify bulk-import column list. Shopify's
// importer matches columns by exact name, so the order and spelling
// here must not drift.
var shopifyHeader = []string{
	"Handle",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Product Category",
	"Type",
	"Tags",
	"Published",
	"Option1 Name",
	"Option1 Value",
	"Option1 Linked To",
	"Option2 Name",
	"Option2 Value",
	"Option2 Linked To",
	"Option3 Name",
	"Option3 Value",
	"Option3 Linked To",
	"Variant SKU",
	"Variant Grams",
	"Variant Inventory Tracker",
	"Variant Inventory Qty",
	"Variant Inventory Policy",
	"Variant Fulfillment Service",
	"Variant Price",
	"Variant Compare At Price",
	"Variant Requires Shipping",
	"Variant Taxable",
	"Variant Barcode",
	"Image Src",
	"Image Position",
	"Image Alt Text",
	"Gift Card",
	"SEO Title",
	"SEO Description",
	"Google Shopping / Google Product Category",
	"Google Shopping / Gender",
	"Google Shopping / Age Group",
	"Google Shopping / MPN",
	"Google Shopping / Condition",
	"Google Shopping / Custom Product",
	"Google Shopping / Custom Label 0",
	"Google Shopping / Custom Label 1",
	"Google Shopping / Custom Label 2",
	"Google Shopping / Custom Label 3",
	"Google Shopping / Custom Label 4",
	"Variant Image",
	"Variant Weight Unit",
	"Cost per item",
	"Included / United States",
	"Price / United States",
	"Compare At Price / United States",
	"Included / International",
	"Price / International",
	"Compare At Price / International",
	"Status",
}

// metafieldHeader holds the optional custom metafield columns appended
// when IncludeMetafields is set. Shopify parses the parenthesized
// namespace.key from each column name.
var metafieldHeader = []string{
	"ASIN (product.metafields.custom.asin)",
	"Amazon Price (product.metafields.custom.amazon_price)",
	"Amazon URL (product.metafields.custom.amazon_url)",
	"BSR (product.metafields.custom.bsr)",
	"Demand Score (product.metafields.custom.demand_score)",
	"Demand Tier (product.metafields.custom.demand_tier)",
	"Monthly Sales (product.metafields.custom.monthly_sales)",
	"Rating (product.metafields.custom.rating)",
	"Review Count (product.metafields.custom.review_count)",
	"Prime (product.metafields.custom.prime)",
	"Costco Price (product.metafields.custom.costco_price)",
	"eBay Price (product.metafields.custom.ebay_price)",
	"Sams Club Price (product.metafields.custom.sams_price)",
	"Walmart Price (product.metafields.custom.walmart_price)",
	"Target Price (product.metafields.custom.target_price)",
}

// Options controls the shape of a Shopify export.
type Options struct {
	Vendor            string
	SEODescriptionMax int
	DefaultPublished  bool
	IncludeMetafields bool
}

// ShopifyHeader returns the effective header for an option set.
func ShopifyHeader(opts Options) []string {
	header := make([]string, 0, len(shopifyHeader)+len(metafieldHeader))
	header = append(header, shopifyHeader...)
	if opts.IncludeMetafields {
		header = append(header, metafieldHeader...)
	}
	return header
}

// ShopifyCSV renders the product list as a Shopify bulk-import CSV.
// An empty list yields an empty string with no header row; otherwise
// the output is the header plus one row per product, every row with
// the same column count.
func ShopifyCSV(products []models.Product, opts Options) (string, error) {
	if len(products) == 0 {
		return "", nil
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(ShopifyHeader(opts)); err != nil {
		return "", err
	}
	for i := range products {
		if err := w.Write(shopifyRow(&products[i], opts)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shopifyRow(p *models.Product, opts Options) []string {
	firstImage := ""
	if len(p.Images) > 0 {
		firstImage = p.Images[0]
	}

	row := []string{
		Handle(p.Title, p.ASIN), // Handle
		p.Title,                 // Title
		BodyHTML(p),             // Body (HTML)
		opts.Vendor,             // Vendor
		GoogleCategory(p.Category), // Product Category
		p.Category,                 // Type
		Tags(p),                    // Tags
		formatBool(opts.DefaultPublished), // Published
		"Title",         // Option1 Name
		"Default Title", // Option1 Value
		"",              // Option1 Linked To
		"",              // Option2 Name
		"",              // Option2 Value
		"",              // Option2 Linked To
		"",              // Option3 Name
		"",              // Option3 Value
		"",              // Option3 Linked To
		p.ASIN,          // Variant SKU
		"0",             // Variant Grams
		"shopify",       // Variant Inventory Tracker
		"100",           // Variant Inventory Qty
		"deny",          // Variant Inventory Policy
		"manual",        // Variant Fulfillment Service
		p.RetailPrice.String(),    // Variant Price
		p.CompareAtPrice.String(), // Variant Compare At Price
		"TRUE",                    // Variant Requires Shipping
		"TRUE",                    // Variant Taxable
		"",                        // Variant Barcode
		firstImage,                // Image Src
		imagePosition(firstImage), // Image Position
		imageAlt(p.Title, firstImage), // Image Alt Text
		"FALSE",                       // Gift Card
		SEOTitle(p.Title),             // SEO Title
		SEODescription(p.Description, opts.SEODescriptionMax), // SEO Description
		GoogleCategory(p.Category),                            // Google Product Category
		"",           // Gender
		"",           // Age Group
		p.ASIN,       // MPN
		"new",        // Condition
		"FALSE",      // Custom Product
		p.DemandTier, // Custom Label 0
		priceBucket(p.RetailPrice), // Custom Label 1
		"",                         // Custom Label 2
		"",                         // Custom Label 3
		"",                         // Custom Label 4
		"",                         // Variant Image
		"lb",                       // Variant Weight Unit
		p.AmazonPrice.String(),     // Cost per item
		"TRUE",                     // Included / United States
		"",                         // Price / United States
		"",                         // Compare At Price / United States
		"FALSE",                    // Included / International
		"",                         // Price / International
		"",                         // Compare At Price / International
		shopifyStatus(p.Status),    // Status
	}

	if opts.IncludeMetafields {
		row = append(row,
			p.ASIN,
			p.AmazonPrice.String(),
			"https://www.amazon.com/dp/"+p.ASIN,
			strconv.Itoa(p.BSR),
			strconv.Itoa(p.DemandScore),
			p.DemandTier,
			strconv.Itoa(p.MonthlySalesEstimate),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			strconv.Itoa(p.ReviewCount),
			formatBool(p.IsPrime),
			p.CostcoDisplayPrice.String(),
			p.EbayDisplayPrice.String(),
			p.SamsDisplayPrice.String(),
			p.WalmartDisplayPrice.String(),
			p.TargetDisplayPrice.String(),
		)
	}
	return row
}

// shopifyStatus maps catalog statuses onto Shopify's three-state
// product status.
func shopifyStatus(status string) string {
	switch status {
	case "active":
		return "active"
	case "archived", "rejected":
		return "archived"
	default:
		return "draft"
	}
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func imagePosition(src string) string {
	if src == "" {
		return ""
	}
	return "1"
}

func imageAlt(title, src string) string {
	if src == "" {
		return ""
	}
	return title
}
