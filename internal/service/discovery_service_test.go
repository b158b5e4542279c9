package service

import (
	"context"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/rainforest"
)

type fakeSearcher struct {
	result *rainforest.SearchResult
	err    error
}

func (f *fakeSearcher) Search(ctx context.Context, input rainforest.SearchInput) (*rainforest.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSearcher) EstimateCost(requests int) float64 { return float64(requests) * 0.01 }
func (f *fakeSearcher) TokensPerMinute() int              { return 60 }

func newDiscoveryTest(t *testing.T, searcher ProductSearcher) *DiscoveryService {
	t.Helper()
	products, _ := setupServiceTest(t)
	engine := pricing.NewEngine(pricing.Default())
	return NewDiscoveryService(products, searcher, engine)
}

func TestDiscoverySearchEvaluatesHits(t *testing.T) {
	searcher := &fakeSearcher{result: &rainforest.SearchResult{
		TotalResults: 2,
		Products: []rainforest.SearchProduct{
			{
				ASIN: "B0DISC0001", Title: "Pour Over Kettle", Brand: "BrewCraft",
				Category: "Kitchen & Dining", Price: 29.99, Rating: 4.5,
				ReviewCount: 300, IsPrime: true,
			},
			{
				ASIN: "B0DISC0002", Title: "Nike Running Shoes", Brand: "Nike",
				Category: "Sports & Outdoors", Price: 59.99, Rating: 4.7,
				ReviewCount: 2000, IsPrime: true,
			},
		},
	}}
	svc := newDiscoveryTest(t, searcher)

	report, err := svc.Search(context.Background(), "kettle", "", 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if report.Evaluated != 2 || report.Eligible != 1 || report.Rejected != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.RejectionCounts) == 0 {
		t.Fatalf("rejection breakdown missing")
	}
	if report.EstimatedCost != 0.01 || report.TokensPerMinute != 60 {
		t.Fatalf("cost estimate not attached: %+v", report)
	}
	if report.Candidates[1].Meets {
		t.Fatalf("excluded brand passed discovery")
	}
}

func validImportItem(asin string) ImportItem {
	return ImportItem{
		ASIN:        asin,
		Title:       "Pour Over Kettle",
		Brand:       "BrewCraft",
		Category:    "Kitchen & Dining",
		Price:       29.99,
		Rating:      4.5,
		ReviewCount: 300,
		IsPrime:     true,
		BSR:         25000,
	}
}

func TestDiscoveryImportPartialSuccess(t *testing.T) {
	svc := newDiscoveryTest(t, &fakeSearcher{})

	rejected := validImportItem("B0IMPT0002")
	rejected.Title = "Nike Running Shoes"

	result, err := svc.Import([]ImportItem{
		validImportItem("B0IMPT0001"),
		rejected,
		validImportItem("B0IMPT0001"), // duplicate of the first
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Total != 3 || result.Succeeded != 1 || result.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", result)
	}
	if result.Items[0].ID == 0 || !result.Items[0].Success {
		t.Fatalf("first item should import: %+v", result.Items[0])
	}

	imported, err := svc.products.GetByASIN("B0IMPT0001")
	if err != nil {
		t.Fatalf("imported product missing: %v", err)
	}
	if imported.Status != "pending" {
		t.Fatalf("imported status = %s, expected pending", imported.Status)
	}
}

func TestDiscoveryImportBatchCap(t *testing.T) {
	svc := newDiscoveryTest(t, &fakeSearcher{})
	items := make([]ImportItem, 101)
	if _, err := svc.Import(items); err != ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}
