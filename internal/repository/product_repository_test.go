package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.PriceHistory{}, &models.SyncLog{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createProduct(t *testing.T, repo *GormProductRepository, asin string, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ASIN:        asin,
		Title:       "Test Product " + asin,
		Brand:       "TestBrand",
		Category:    "Kitchen & Dining",
		AmazonPrice: models.NewMoneyFromFloat(14.70),
		RetailPrice: models.NewMoneyFromFloat(24.99),
		Rating:      4.5,
		ReviewCount: 100,
		IsPrime:     true,
		BSR:         25000,
		DemandScore: 58,
		DemandTier:  "medium",
		Status:      "active",
	}
	if mutate != nil {
		mutate(product)
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductCRUDByIDAndASIN(t *testing.T) {
	repo, _ := setupRepositoryTest(t)
	created := createProduct(t, repo, "B0TEST0001", nil)

	byID, err := repo.GetByID(created.ID)
	if err != nil || byID == nil {
		t.Fatalf("get by id failed: %v %v", byID, err)
	}
	byASIN, err := repo.GetByASIN("B0TEST0001")
	if err != nil || byASIN == nil || byASIN.ID != created.ID {
		t.Fatalf("get by asin failed: %v %v", byASIN, err)
	}

	missing, err := repo.GetByID(99999)
	if err != nil || missing != nil {
		t.Fatalf("missing product should yield nil, nil; got %v %v", missing, err)
	}

	byID.Status = "paused"
	if err := repo.Update(byID); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	reloaded, _ := repo.GetByID(created.ID)
	if reloaded.Status != "paused" {
		t.Fatalf("status not persisted: %s", reloaded.Status)
	}
}

func TestProductListFilters(t *testing.T) {
	repo, _ := setupRepositoryTest(t)
	createProduct(t, repo, "B0FILT0001", func(p *models.Product) {
		p.Status = "active"
		p.DemandScore = 80
		p.BSR = 5000
	})
	createProduct(t, repo, "B0FILT0002", func(p *models.Product) {
		p.Status = "draft"
		p.DemandScore = 40
		p.BSR = 90000
		p.IsPrime = false
	})
	createProduct(t, repo, "B0FILT0003", func(p *models.Product) {
		p.Status = "active"
		p.DemandScore = 65
		p.BSR = 30000
		p.Title = "Gooseneck Kettle"
	})

	products, total, err := repo.List(ProductListFilter{Statuses: []string{"active"}, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("status filter: total=%d rows=%d", total, len(products))
	}

	_, total, err = repo.List(ProductListFilter{MinDemandScore: 60, MaxBSR: 40000, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("score+bsr filter: total=%d", total)
	}

	products, total, err = repo.List(ProductListFilter{Search: "Gooseneck", PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || products[0].ASIN != "B0FILT0003" {
		t.Fatalf("search filter: total=%d", total)
	}

	products, _, err = repo.List(ProductListFilter{OrderBy: "demand_score DESC", PageSize: 2, Page: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 || products[0].DemandScore != 80 {
		t.Fatalf("ordering/pagination broken: %+v", products)
	}
}

func TestProductListDueForRefresh(t *testing.T) {
	repo, _ := setupRepositoryTest(t)
	now := time.Now()
	past := now.Add(-1 * time.Hour)
	future := now.Add(24 * time.Hour)

	due := createProduct(t, repo, "B0REFR0001", func(p *models.Product) {
		p.NextPriceCheck = &past
	})
	createProduct(t, repo, "B0REFR0002", func(p *models.Product) {
		p.NextPriceCheck = &future
	})
	neverChecked := createProduct(t, repo, "B0REFR0003", nil)
	createProduct(t, repo, "B0REFR0004", func(p *models.Product) {
		p.Status = "archived"
		p.NextPriceCheck = &past
	})

	products, err := repo.ListDueForRefresh(now, 10)
	if err != nil {
		t.Fatalf("due list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 due products, got %d", len(products))
	}
	ids := map[uint]bool{products[0].ID: true, products[1].ID: true}
	if !ids[due.ID] || !ids[neverChecked.ID] {
		t.Fatalf("wrong due set: %v", ids)
	}
}

func TestProductMarkSyncedAndStatus(t *testing.T) {
	repo, _ := setupRepositoryTest(t)
	product := createProduct(t, repo, "B0SYNC0001", nil)

	syncedAt := time.Now()
	if err := repo.MarkSynced(product.ID, 777, 888, syncedAt); err != nil {
		t.Fatalf("mark synced failed: %v", err)
	}
	reloaded, _ := repo.GetByID(product.ID)
	if reloaded.ShopifyProductID != 777 || reloaded.ShopifyVariantID != 888 || reloaded.ShopifySyncedAt == nil {
		t.Fatalf("shopify linkage not persisted: %+v", reloaded)
	}

	affected, err := repo.UpdateStatus(product.ID, "archived")
	if err != nil || affected != 1 {
		t.Fatalf("update status: affected=%d err=%v", affected, err)
	}
	affected, err = repo.UpdateStatus(99999, "archived")
	if err != nil || affected != 0 {
		t.Fatalf("missing id should affect 0 rows: affected=%d err=%v", affected, err)
	}
}

func TestProductDeleteSoftAndHard(t *testing.T) {
	repo, _ := setupRepositoryTest(t)
	soft := createProduct(t, repo, "B0DELE0001", nil)
	hard := createProduct(t, repo, "B0DELE0002", nil)

	if err := repo.Delete(soft.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	gone, _ := repo.GetByID(soft.ID)
	if gone != nil {
		t.Fatalf("soft-deleted row still visible")
	}

	if err := repo.HardDelete(hard.ID); err != nil {
		t.Fatalf("hard delete failed: %v", err)
	}
	var count int64
	repo.db.Unscoped().Model(&models.Product{}).Where("id = ?", hard.ID).Count(&count)
	if count != 0 {
		t.Fatalf("hard-deleted row still present")
	}
}

func TestPriceHistoryAppendAndListRecent(t *testing.T) {
	repo, db := setupRepositoryTest(t)
	product := createProduct(t, repo, "B0HIST0001", nil)
	history := NewPriceHistoryRepository(db)

	base := time.Now().Add(-72 * time.Hour)
	for i := 0; i < 4; i++ {
		entry := &models.PriceHistory{
			ProductID:   product.ID,
			ASIN:        product.ASIN,
			AmazonPrice: models.NewMoneyFromFloat(14.70 + float64(i)),
			BSR:         25000 - i*1000,
			RecordedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if err := history.Append(entry); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := history.ListRecent(PriceHistoryFilter{ProductID: product.ID, Limit: 2})
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(entries) != 2 || entries[0].RecordedAt.Before(entries[1].RecordedAt) {
		t.Fatalf("expected 2 entries newest first, got %+v", entries)
	}

	since := base.Add(36 * time.Hour)
	entries, err = history.ListRecent(PriceHistoryFilter{ProductID: product.ID, Since: &since})
	if err != nil || len(entries) != 2 {
		t.Fatalf("since filter: %d entries err=%v", len(entries), err)
	}
}

func TestSyncLogListFilter(t *testing.T) {
	repo, db := setupRepositoryTest(t)
	product := createProduct(t, repo, "B0SLOG0001", nil)
	logs := NewSyncLogRepository(db)

	for _, status := range []string{"success", "failed", "success"} {
		if err := logs.Create(&models.SyncLog{
			ProductID: product.ID,
			ASIN:      product.ASIN,
			Action:    "create",
			Status:    status,
		}); err != nil {
			t.Fatalf("create sync log failed: %v", err)
		}
	}

	entries, total, err := logs.List(SyncLogListFilter{ProductID: product.ID, Status: "success", PageSize: 10})
	if err != nil {
		t.Fatalf("list sync logs failed: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("status filter: total=%d rows=%d", total, len(entries))
	}
}
