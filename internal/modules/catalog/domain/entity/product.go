package entity

import (
	"time"
)

// Product is one sellable phone SKU.
type Product struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Uuid      string    `gorm:"column:uuid;uniqueIndex;type:char(36);not null"`
	Sku       string    `gorm:"column:sku;uniqueIndex;type:varchar(64);not null"`
	Name      string    `gorm:"column:name;type:varchar(128);not null"`
	Brand     string    `gorm:"column:brand;index;type:varchar(64)"`
	Price     float64   `gorm:"column:price;type:decimal(10,2);not null"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Product) TableName() string {
	return "product"
}
