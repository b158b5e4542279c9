package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/shopify"

	"gorm.io/gorm"
)

type fakePusher struct {
	created    []shopify.ProductInput
	updated    []int64
	metafields []shopify.Metafield
	failWith   error
	nextID     int64
}

func (f *fakePusher) CreateProduct(ctx context.Context, input shopify.ProductInput) (*shopify.ProductResult, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.created = append(f.created, input)
	f.nextID++
	return &shopify.ProductResult{ProductID: f.nextID, VariantID: f.nextID * 10}, nil
}

func (f *fakePusher) UpdateProduct(ctx context.Context, productID int64, input shopify.ProductInput) (*shopify.ProductResult, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.updated = append(f.updated, productID)
	return &shopify.ProductResult{ProductID: productID, VariantID: productID * 10}, nil
}

func (f *fakePusher) SetMetafield(ctx context.Context, productID int64, field shopify.Metafield) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.metafields = append(f.metafields, field)
	return nil
}

func newSyncTest(t *testing.T) (*SyncService, *ProductService, *fakePusher, *gorm.DB) {
	t.Helper()
	products, db := setupServiceTest(t)
	pusher := &fakePusher{}
	cfg := config.ExportConfig{Vendor: "Ops Catalog", IncludeMetafields: true}
	svc := NewSyncService(
		repository.NewProductRepository(db),
		repository.NewSyncLogRepository(db),
		pusher,
		cfg,
	)
	return svc, products, pusher, db
}

func createSyncable(t *testing.T, products *ProductService, asin string) uint {
	t.Helper()
	input := validCreateInput(asin)
	input.Status = "active"
	product, err := products.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return product.ID
}

func TestSyncCreatesNewProduct(t *testing.T) {
	svc, products, pusher, db := newSyncTest(t)
	id := createSyncable(t, products, "B0PUSH0001")

	outcome, err := svc.Sync(context.Background(), id)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if !outcome.Success || outcome.Action != "create" {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(pusher.created) != 1 {
		t.Fatalf("create not pushed")
	}
	if len(pusher.created[0].Metafields) == 0 {
		t.Fatalf("create push must carry inline metafields")
	}

	synced, _ := products.Get(id)
	if synced.ShopifyProductID != outcome.ShopifyProductID || synced.ShopifySyncedAt == nil {
		t.Fatalf("shopify linkage not persisted: %+v", synced)
	}

	logs := repository.NewSyncLogRepository(db)
	entries, total, err := logs.List(repository.SyncLogListFilter{ProductID: id, PageSize: 10})
	if err != nil || total != 1 || entries[0].Status != "success" {
		t.Fatalf("sync log missing: total=%d err=%v", total, err)
	}
}

func TestSyncUpdatesExistingProductWithMetafieldCalls(t *testing.T) {
	svc, products, pusher, _ := newSyncTest(t)
	id := createSyncable(t, products, "B0PUSH0002")

	if _, err := svc.Sync(context.Background(), id); err != nil {
		t.Fatalf("initial sync failed: %v", err)
	}
	outcome, err := svc.Sync(context.Background(), id)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if outcome.Action != "update" {
		t.Fatalf("expected update action, got %s", outcome.Action)
	}
	if len(pusher.updated) != 1 {
		t.Fatalf("update not pushed")
	}
	// Updates must set each metafield through its own call.
	if len(pusher.metafields) == 0 {
		t.Fatalf("per-metafield calls missing on update")
	}
}

func TestSyncRejectsUnsyncableStatus(t *testing.T) {
	svc, products, _, _ := newSyncTest(t)
	product, err := products.Create(validCreateInput("B0PUSH0003"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Sync(context.Background(), product.ID); err != ErrNotSyncable {
		t.Fatalf("pending product must not sync, got %v", err)
	}
	if _, err := svc.Sync(context.Background(), 99999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncAllPartialSuccess(t *testing.T) {
	svc, products, pusher, db := newSyncTest(t)
	createSyncable(t, products, "B0PUSH0004")
	createSyncable(t, products, "B0PUSH0005")

	pusher.failWith = errors.New("boom")
	result, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("sync all failed: %v", err)
	}
	if result.Total != 2 || result.Succeeded != 0 || result.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", result)
	}

	pusher.failWith = nil
	result, err = svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("sync all failed: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("unexpected summary after recovery: %+v", result)
	}

	logs := repository.NewSyncLogRepository(db)
	_, failedTotal, _ := logs.List(repository.SyncLogListFilter{Status: "failed", PageSize: 10})
	if failedTotal != 2 {
		t.Fatalf("failed sync logs = %d, expected 2", failedTotal)
	}
}
