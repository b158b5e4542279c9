package repository

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"

	"gorm.io/gorm"
)

// PriceHistoryRepository stores per-product price/BSR snapshots.
type PriceHistoryRepository interface {
	Append(entry *models.PriceHistory) error
	ListRecent(filter PriceHistoryFilter) ([]models.PriceHistory, error)
	DeleteByProduct(productID uint) error
	WithTx(tx *gorm.DB) PriceHistoryRepository
}

// GormPriceHistoryRepository is the GORM implementation.
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates the history repository.
func NewPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPriceHistoryRepository) WithTx(tx *gorm.DB) PriceHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormPriceHistoryRepository{db: tx}
}

// Append inserts one snapshot.
func (r *GormPriceHistoryRepository) Append(entry *models.PriceHistory) error {
	return r.db.Create(entry).Error
}

// ListRecent returns snapshots for a product, newest first.
func (r *GormPriceHistoryRepository) ListRecent(filter PriceHistoryFilter) ([]models.PriceHistory, error) {
	var entries []models.PriceHistory
	query := r.db.Where("product_id = ?", filter.ProductID).Order("recorded_at DESC")
	if filter.Since != nil {
		query = query.Where("recorded_at >= ?", *filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByProduct removes every snapshot for a product.
func (r *GormPriceHistoryRepository) DeleteByProduct(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.PriceHistory{}).Error
}
