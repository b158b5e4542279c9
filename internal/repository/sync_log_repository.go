package repository

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"

	"gorm.io/gorm"
)

// SyncLogRepository stores the Shopify push audit trail.
type SyncLogRepository interface {
	Create(entry *models.SyncLog) error
	List(filter SyncLogListFilter) ([]models.SyncLog, int64, error)
}

// GormSyncLogRepository is the GORM implementation.
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates the sync log repository.
func NewSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// Create appends one audit entry.
func (r *GormSyncLogRepository) Create(entry *models.SyncLog) error {
	return r.db.Create(entry).Error
}

// List returns a page of audit entries, newest first.
func (r *GormSyncLogRepository) List(filter SyncLogListFilter) ([]models.SyncLog, int64, error) {
	var entries []models.SyncLog

	query := r.db.Model(&models.SyncLog{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
