package export

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
)

const seoTitleMax = 70

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and collapses every non-alphanumeric run
// into a single hyphen.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Handle builds the Shopify handle: slugified title plus a lowercase
// ASIN suffix so duplicate titles still get unique handles.
func Handle(title, asin string) string {
	slug := Slugify(title)
	suffix := strings.ToLower(strings.TrimSpace(asin))
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// Tags assembles the comma-joined tag list: category, brand, demand
// tier, price bucket, Prime flag, and the import month.
func Tags(p *models.Product) string {
	var tags []string
	if p.Category != "" {
		tags = append(tags, p.Category)
	}
	if p.Brand != "" {
		tags = append(tags, p.Brand)
	}
	if p.DemandTier != "" {
		tags = append(tags, "demand-"+p.DemandTier)
	}
	tags = append(tags, priceBucket(p.RetailPrice))
	if p.IsPrime {
		tags = append(tags, "prime")
	}
	if !p.CreatedAt.IsZero() {
		tags = append(tags, "import-"+p.CreatedAt.Format("2006-01"))
	}
	return strings.Join(tags, ", ")
}

// priceBucket groups retail prices into coarse tag buckets.
func priceBucket(price models.Money) string {
	value := price.InexactFloat64()
	switch {
	case value < 25:
		return "under-25"
	case value < 50:
		return "25-to-50"
	case value < 75:
		return "50-to-75"
	default:
		return "75-plus"
	}
}

// BodyHTML renders the product description as a paragraph, followed by
// a feature bullet list and a spec list when present.
func BodyHTML(p *models.Product) string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(p.Description))
		b.WriteString("</p>")
	}
	if len(p.Features) > 0 {
		b.WriteString("<ul>")
		for _, feature := range p.Features {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(feature))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}
	if len(p.Specs) > 0 {
		b.WriteString("<ul>")
		for _, key := range sortedSpecKeys(p.Specs) {
			b.WriteString("<li><strong>")
			b.WriteString(html.EscapeString(key))
			b.WriteString(":</strong> ")
			b.WriteString(html.EscapeString(fmt.Sprintf("%v", p.Specs[key])))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

func sortedSpecKeys(specs models.JSON) []string {
	keys := make([]string, 0, len(specs))
	for key := range specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SEOTitle truncates a title to Shopify's 70-character SEO limit.
func SEOTitle(title string) string {
	return truncateWithEllipsis(title, seoTitleMax)
}

// SEODescription truncates a description to the configured SEO limit.
func SEODescription(description string, max int) string {
	if max <= 0 {
		max = 320
	}
	return truncateWithEllipsis(description, max)
}

// truncateWithEllipsis cuts at a rune boundary and spends the last
// three characters of the limit on the ellipsis.
func truncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// googleCategoryKeywords maps category keywords to Google Shopping
// taxonomy paths. Lookup is a case-insensitive substring match against
// the product category; no match renders the column empty.
var googleCategoryKeywords = []struct {
	keyword  string
	taxonomy string
}{
	{"kitchen", "Home & Garden > Kitchen & Dining"},
	{"dining", "Home & Garden > Kitchen & Dining"},
	{"home", "Home & Garden"},
	{"garden", "Home & Garden"},
	{"furniture", "Furniture"},
	{"tool", "Hardware > Tools"},
	{"electronic", "Electronics"},
	{"computer", "Electronics > Computers"},
	{"camera", "Cameras & Optics"},
	{"toy", "Toys & Games"},
	{"game", "Toys & Games"},
	{"sport", "Sporting Goods"},
	{"outdoor", "Sporting Goods > Outdoor Recreation"},
	{"fitness", "Sporting Goods > Exercise & Fitness"},
	{"pet", "Animals & Pet Supplies"},
	{"baby", "Baby & Toddler"},
	{"office", "Office Supplies"},
	{"beauty", "Health & Beauty"},
	{"jewelry", "Apparel & Accessories > Jewelry"},
	{"clothing", "Apparel & Accessories > Clothing"},
	{"shoe", "Apparel & Accessories > Shoes"},
	{"luggage", "Luggage & Bags"},
	{"automotive", "Vehicles & Parts"},
	{"craft", "Arts & Entertainment > Hobbies & Creative Arts"},
	{"music", "Arts & Entertainment"},
	{"book", "Media > Books"},
}

// GoogleCategory resolves the Google Shopping category for a product
// category string.
func GoogleCategory(category string) string {
	normalized := strings.ToLower(category)
	for _, entry := range googleCategoryKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.taxonomy
		}
	}
	return ""
}

// importMonth is exposed for the master export metadata.
func importMonth(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}
