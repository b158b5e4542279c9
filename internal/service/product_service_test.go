package service

import (
	"strings"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.PriceHistory{}, &models.SyncLog{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	engine := pricing.NewEngine(pricing.Default())
	return NewProductService(repository.NewProductRepository(db), engine), db
}

func validCreateInput(asin string) CreateProductInput {
	return CreateProductInput{
		ASIN:        asin,
		Title:       "Stainless Steel Pour Over Kettle",
		Brand:       "BrewCraft",
		Category:    "Kitchen & Dining",
		AmazonPrice: decimal.NewFromFloat(14.70),
		Rating:      4.6,
		ReviewCount: 812,
		IsPrime:     true,
		BSR:         25000,
	}
}

func TestCreateDerivesPricingAndDemand(t *testing.T) {
	svc, _ := setupServiceTest(t)

	product, err := svc.Create(validCreateInput("b0abc12345"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if product.ASIN != "B0ABC12345" {
		t.Fatalf("asin not normalized: %s", product.ASIN)
	}
	if product.RetailPrice.String() != "24.99" {
		t.Fatalf("retail price = %s, expected 24.99", product.RetailPrice)
	}
	if product.AmazonDisplayPrice.String() != "46.23" {
		t.Fatalf("amazon display price = %s, expected 46.23", product.AmazonDisplayPrice)
	}
	if product.ProfitMargin.String() != "10.29" {
		t.Fatalf("profit margin = %s, expected 10.29", product.ProfitMargin)
	}
	if product.Status != "pending" {
		t.Fatalf("default status = %s, expected pending", product.Status)
	}
	if product.DemandScore <= 0 || product.DemandTier == "" {
		t.Fatalf("demand fields not derived: score=%d tier=%s", product.DemandScore, product.DemandTier)
	}
	if product.MonthlySalesEstimate != 120 {
		t.Fatalf("sales estimate = %d, expected 120 for bsr 25000", product.MonthlySalesEstimate)
	}
	if product.NextPriceCheck == nil {
		t.Fatalf("next price check not scheduled")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := setupServiceTest(t)

	badASIN := validCreateInput("NOTANASIN")
	if _, err := svc.Create(badASIN); err != ErrInvalidASIN {
		t.Fatalf("expected ErrInvalidASIN, got %v", err)
	}

	noTitle := validCreateInput("B0VALD0001")
	noTitle.Title = ""
	if _, err := svc.Create(noTitle); err != ErrMissingTitle {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}

	freeCost := validCreateInput("B0VALD0002")
	freeCost.AmazonPrice = decimal.Zero
	if _, err := svc.Create(freeCost); err != ErrInvalidCost {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	badStatus := validCreateInput("B0VALD0003")
	badStatus.Status = "published"
	if _, err := svc.Create(badStatus); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := svc.Create(validCreateInput("B0VALD0004")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(validCreateInput("B0VALD0004")); err != ErrDuplicateASIN {
		t.Fatalf("expected ErrDuplicateASIN, got %v", err)
	}
}

func TestUpdateRepricesOnCostChange(t *testing.T) {
	svc, _ := setupServiceTest(t)
	product, err := svc.Create(validCreateInput("B0UPDT0001"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newCost := decimal.NewFromInt(10)
	updated, err := svc.Update(product.ID, UpdateProductInput{AmazonPrice: &newCost})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.RetailPrice.String() != "17.00" {
		t.Fatalf("retail not repriced: %s", updated.RetailPrice)
	}

	badCost := decimal.NewFromInt(-1)
	if _, err := svc.Update(product.ID, UpdateProductInput{AmazonPrice: &badCost}); err != ErrInvalidCost {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}

	if _, err := svc.Update(99999, UpdateProductInput{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArchiveAndDelete(t *testing.T) {
	svc, _ := setupServiceTest(t)
	product, err := svc.Create(validCreateInput("B0ARCH0001"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Archive(product.ID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	archived, _ := svc.Get(product.ID)
	if archived.Status != "archived" {
		t.Fatalf("status = %s, expected archived", archived.Status)
	}
	if err := svc.Archive(99999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(product.ID); err != ErrNotFound {
		t.Fatalf("deleted product still readable: %v", err)
	}
}

func TestBulkUpdateStatusPartialSuccess(t *testing.T) {
	svc, _ := setupServiceTest(t)
	a, err := svc.Create(validCreateInput("B0BULK0001"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.Create(validCreateInput("B0BULK0002"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.BulkUpdateStatus([]uint{a.ID, 99999, b.ID}, "active")
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if result.Total != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", result)
	}
	if len(result.Items) != 3 || result.Items[1].Success {
		t.Fatalf("missing id must fail per-item: %+v", result.Items)
	}

	if _, err := svc.BulkUpdateStatus([]uint{a.ID}, "published"); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	tooMany := make([]uint, 101)
	if _, err := svc.BulkUpdateStatus(tooMany, "active"); err != ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestBulkDeletePartialSuccess(t *testing.T) {
	svc, _ := setupServiceTest(t)
	a, err := svc.Create(validCreateInput("B0BDEL0001"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.BulkDelete([]uint{a.ID, 99999})
	if err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", result)
	}
}
