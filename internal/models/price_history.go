package models

import "time"

// PriceHistory is a point-in-time snapshot of a product's price and
// demand signals, appended by the refresh pipeline and consumed by
// demand scoring (BSR trend, price stability, review velocity).
type PriceHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	ASIN        string    `gorm:"type:varchar(10);index" json:"asin"`
	AmazonPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amazon_price"`
	BSR         int       `gorm:"default:0" json:"bsr"`
	Rating      float64   `gorm:"default:0" json:"rating"`
	ReviewCount int       `gorm:"default:0" json:"review_count"`
	RecordedAt  time.Time `gorm:"index" json:"recorded_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName sets the table name.
func (PriceHistory) TableName() string {
	return "price_histories"
}
