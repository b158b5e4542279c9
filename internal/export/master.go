package export

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
)

// masterHeader is the internal full-detail export, one column per
// operationally interesting field. Unlike the Shopify header it is
// ours to change, but existing spreadsheets depend on the order.
var masterHeader = []string{
	"id",
	"asin",
	"title",
	"brand",
	"category",
	"status",
	"amazon_price",
	"retail_price",
	"compare_at_price",
	"profit_margin",
	"profit_percent",
	"amazon_display_price",
	"costco_display_price",
	"ebay_display_price",
	"sams_display_price",
	"walmart_display_price",
	"target_display_price",
	"rating",
	"review_count",
	"is_prime",
	"bsr",
	"demand_score",
	"demand_tier",
	"monthly_sales_estimate",
	"shopify_product_id",
	"import_month",
}

// MasterCSV renders the full-detail catalog export. Empty input yields
// an empty string, matching the Shopify export contract.
func MasterCSV(products []models.Product) (string, error) {
	if len(products) == 0 {
		return "", nil
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(masterHeader); err != nil {
		return "", err
	}
	for i := range products {
		p := &products[i]
		row := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.ASIN,
			p.Title,
			p.Brand,
			p.Category,
			p.Status,
			p.AmazonPrice.String(),
			p.RetailPrice.String(),
			p.CompareAtPrice.String(),
			p.ProfitMargin.String(),
			strconv.FormatFloat(p.ProfitPercent, 'f', 2, 64),
			p.AmazonDisplayPrice.String(),
			p.CostcoDisplayPrice.String(),
			p.EbayDisplayPrice.String(),
			p.SamsDisplayPrice.String(),
			p.WalmartDisplayPrice.String(),
			p.TargetDisplayPrice.String(),
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			strconv.Itoa(p.ReviewCount),
			formatBool(p.IsPrime),
			strconv.Itoa(p.BSR),
			strconv.Itoa(p.DemandScore),
			p.DemandTier,
			strconv.Itoa(p.MonthlySalesEstimate),
			strconv.FormatInt(p.ShopifyProductID, 10),
			importMonth(p.CreatedAt),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MasterJSON renders the same catalog export as a JSON array of the
// model's own JSON shape.
func MasterJSON(products []models.Product) (string, error) {
	if len(products) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(products)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
