package models

import "time"

// SyncLog records the outcome of one Shopify push.
type SyncLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	ProductID        uint      `gorm:"not null;index" json:"product_id"`
	ASIN             string    `gorm:"type:varchar(10);index" json:"asin"`
	Action           string    `gorm:"type:varchar(20);not null" json:"action"` // create / update
	Status           string    `gorm:"type:varchar(20);index;not null" json:"status"`
	ShopifyProductID int64     `gorm:"default:0" json:"shopify_product_id"`
	Error            string    `gorm:"type:text" json:"error"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (SyncLog) TableName() string {
	return "sync_logs"
}
