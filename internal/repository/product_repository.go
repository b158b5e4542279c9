package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the catalog data access interface.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetByASIN(asin string) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListDueForRefresh(now time.Time, limit int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateStatus(id uint, status string) (int64, error)
	Delete(id uint) error
	HardDelete(id uint) error
	MarkSynced(id uint, shopifyProductID, shopifyVariantID int64, syncedAt time.Time) error
	CountByStatus() (map[string]int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the catalog repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List returns a filtered page of products plus the unpaged total.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.MinDemandScore > 0 {
		query = query.Where("demand_score >= ?", filter.MinDemandScore)
	}
	if filter.MaxBSR > 0 {
		query = query.Where("bsr > 0 AND bsr <= ?", filter.MaxBSR)
	}
	if filter.MinMargin > 0 {
		query = query.Where("profit_margin >= ?", filter.MinMargin)
	}
	if filter.DemandTier != "" {
		query = query.Where("demand_tier = ?", filter.DemandTier)
	}
	if filter.OnlyPrime {
		query = query.Where("is_prime = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR asin LIKE ? OR brand LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	if err := query.Order(orderBy).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByID fetches one product; a missing row yields (nil, nil).
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByASIN fetches one product by its unique ASIN.
func (r *GormProductRepository) GetByASIN(asin string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("asin = ?", asin).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs fetches a batch of products by id.
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListDueForRefresh returns active products whose next price check is
// due, oldest first.
func (r *GormProductRepository) ListDueForRefresh(now time.Time, limit int) ([]models.Product, error) {
	var products []models.Product
	query := r.db.
		Where("status = ?", constants.ProductStatusActive).
		Where("next_price_check IS NULL OR next_price_check <= ?", now).
		Order("next_price_check ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves all product fields.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpdateStatus flips only the status column, returning rows affected.
func (r *GormProductRepository) UpdateStatus(id uint, status string) (int64, error) {
	result := r.db.Model(&models.Product{}).Where("id = ?", id).Update("status", status)
	return result.RowsAffected, result.Error
}

// Delete soft-deletes a product.
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// HardDelete removes the row permanently.
func (r *GormProductRepository) HardDelete(id uint) error {
	return r.db.Unscoped().Delete(&models.Product{}, id).Error
}

// MarkSynced persists the Shopify linkage after a successful push.
func (r *GormProductRepository) MarkSynced(id uint, shopifyProductID, shopifyVariantID int64, syncedAt time.Time) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"shopify_product_id": shopifyProductID,
		"shopify_variant_id": shopifyVariantID,
		"shopify_synced_at":  syncedAt,
	}).Error
}

// CountByStatus returns row counts grouped by status.
func (r *GormProductRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := r.db.Model(&models.Product{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
