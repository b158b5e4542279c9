package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
)

func sampleProduct(t *testing.T) models.Product {
	t.Helper()
	return models.Product{
		ID:          1,
		ASIN:        "B0ABC12345",
		Title:       "Stainless Steel Pour Over Kettle, 40oz",
		Description: "Gooseneck kettle with a \"precision\" spout.",
		Brand:       "BrewCraft",
		Category:    "Kitchen & Dining",
		Features:    models.StringArray{"40oz capacity", "Thermometer lid"},
		Specs:       models.JSON{"Material": "Stainless Steel", "Capacity": "40oz"},
		Images:      models.StringArray{"https://img.example.com/kettle.jpg"},

		AmazonPrice:    models.NewMoneyFromFloat(14.70),
		RetailPrice:    models.NewMoneyFromFloat(24.99),
		CompareAtPrice: models.NewMoneyFromFloat(46.23),

		Rating:               4.6,
		ReviewCount:          812,
		IsPrime:              true,
		BSR:                  25000,
		DemandScore:          58,
		DemandTier:           "medium",
		MonthlySalesEstimate: 120,

		Status:    "active",
		CreatedAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestShopifyCSVEmptyList(t *testing.T) {
	out, err := ShopifyCSV(nil, Options{})
	if err != nil {
		t.Fatalf("empty export returned error: %v", err)
	}
	if out != "" {
		t.Fatalf("empty export must produce an empty body, got %q", out)
	}
}

func TestShopifyCSVRowShape(t *testing.T) {
	products := []models.Product{sampleProduct(t), sampleProduct(t), sampleProduct(t)}
	products[1].ASIN = "B0DEF67890"
	products[2].ASIN = "B0GHI13579"

	for _, includeMetafields := range []bool{false, true} {
		opts := Options{Vendor: "Ops Catalog", IncludeMetafields: includeMetafields}
		out, err := ShopifyCSV(products, opts)
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		if err != nil {
			t.Fatalf("output is not parseable CSV: %v", err)
		}
		if len(records) != len(products)+1 {
			t.Fatalf("expected %d rows, got %d", len(products)+1, len(records))
		}

		wantCols := 55
		if includeMetafields {
			wantCols = 70
		}
		for i, record := range records {
			if len(record) != wantCols {
				t.Fatalf("metafields=%v row %d has %d columns, expected %d",
					includeMetafields, i, len(record), wantCols)
			}
		}
	}
}

func TestShopifyCSVHeaderStable(t *testing.T) {
	first := ShopifyHeader(Options{IncludeMetafields: true})
	second := ShopifyHeader(Options{IncludeMetafields: true})
	if len(first) != len(second) {
		t.Fatalf("header length unstable")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("header column %d unstable: %q vs %q", i, first[i], second[i])
		}
	}
	if first[0] != "Handle" || first[54] != "Status" {
		t.Fatalf("header boundaries wrong: first=%q col55=%q", first[0], first[54])
	}
}

func TestShopifyCSVEscaping(t *testing.T) {
	p := sampleProduct(t)
	p.Title = `Kettle, "Deluxe"
Edition`

	out, err := ShopifyCSV([]models.Product{p}, Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("escaped output is not parseable CSV: %v", err)
	}
	if records[1][1] != p.Title {
		t.Fatalf("title did not round-trip: %q", records[1][1])
	}
}

func TestHandleUniquePerASIN(t *testing.T) {
	a := Handle("Stainless Steel Kettle", "B0ABC12345")
	b := Handle("Stainless Steel Kettle", "B0DEF67890")
	if a == b {
		t.Fatalf("same title must yield distinct handles per ASIN")
	}
	if a != "stainless-steel-kettle-b0abc12345" {
		t.Fatalf("unexpected handle: %q", a)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Stainless Steel Kettle", "stainless-steel-kettle"},
		{"  40oz -- Pour/Over!! ", "40oz-pour-over"},
		{"___", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestSEOTruncation(t *testing.T) {
	long := strings.Repeat("a", 100)
	title := SEOTitle(long)
	if len([]rune(title)) != 70 || !strings.HasSuffix(title, "...") {
		t.Fatalf("SEO title not truncated to 70 with ellipsis: %q", title)
	}

	desc := SEODescription(strings.Repeat("b", 400), 320)
	if len([]rune(desc)) != 320 || !strings.HasSuffix(desc, "...") {
		t.Fatalf("SEO description not truncated to 320 with ellipsis: %q", desc[:20])
	}

	short := SEODescription("short", 320)
	if short != "short" {
		t.Fatalf("short description must pass through unchanged, got %q", short)
	}
}

func TestTags(t *testing.T) {
	p := sampleProduct(t)
	tags := Tags(&p)
	for _, expected := range []string{
		"Kitchen & Dining", "BrewCraft", "demand-medium", "under-25", "prime", "import-2026-08",
	} {
		if !strings.Contains(tags, expected) {
			t.Fatalf("tags %q missing %q", tags, expected)
		}
	}
}

func TestGoogleCategory(t *testing.T) {
	if got := GoogleCategory("Kitchen & Dining"); got != "Home & Garden > Kitchen & Dining" {
		t.Fatalf("unexpected taxonomy: %q", got)
	}
	if got := GoogleCategory("Collectible Coins"); got != "" {
		t.Fatalf("no keyword match must yield empty, got %q", got)
	}
}

func TestBodyHTML(t *testing.T) {
	p := sampleProduct(t)
	body := BodyHTML(&p)
	if !strings.HasPrefix(body, "<p>") {
		t.Fatalf("description not wrapped in <p>: %q", body)
	}
	if !strings.Contains(body, "<li>40oz capacity</li>") {
		t.Fatalf("feature list missing: %q", body)
	}
	if !strings.Contains(body, "&#34;precision&#34;") {
		t.Fatalf("description not HTML-escaped: %q", body)
	}
	if !strings.Contains(body, "<strong>Capacity:</strong> 40oz") {
		t.Fatalf("spec list missing: %q", body)
	}
	if strings.Index(body, "Capacity") > strings.Index(body, "Material") {
		t.Fatalf("spec keys not in sorted order: %q", body)
	}
}

func TestMasterCSV(t *testing.T) {
	out, err := MasterCSV([]models.Product{sampleProduct(t)})
	if err != nil {
		t.Fatalf("master export failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("master export is not parseable CSV: %v", err)
	}
	if len(records) != 2 || len(records[0]) != len(masterHeader) {
		t.Fatalf("unexpected master shape: %d rows x %d cols", len(records), len(records[0]))
	}

	empty, err := MasterCSV(nil)
	if err != nil || empty != "" {
		t.Fatalf("empty master export must be empty string, got %q err %v", empty, err)
	}
}

func TestMasterJSONEmpty(t *testing.T) {
	out, err := MasterJSON(nil)
	if err != nil || out != "[]" {
		t.Fatalf("empty master JSON must be [], got %q err %v", out, err)
	}
}
