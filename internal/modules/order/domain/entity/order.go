package entity

import (
	"time"
)

// Order status values.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Order struct {
	Id            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNo       string    `gorm:"column:order_no;uniqueIndex;type:varchar(32);not null"`
	CustomerName  string    `gorm:"column:customer_name;type:varchar(64)"`
	CustomerPhone string    `gorm:"column:customer_phone;type:varchar(32)"`
	Status        string    `gorm:"column:status;index;type:varchar(12);not null;default:pending"`
	Total         float64   `gorm:"column:total;type:decimal(10,2);not null"`
	// PaymentRef records the KHQR transaction reference once paid.
	PaymentRef string    `gorm:"column:payment_ref;type:varchar(64)"`
	CreatedAt  time.Time `gorm:"column:created_at;index;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`

	Items []OrderItem `gorm:"foreignKey:OrderId"`
}

func (Order) TableName() string {
	return "pos_order"
}

type OrderItem struct {
	Id          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderId     int64   `gorm:"column:order_id;index;not null"`
	ProductUuid string  `gorm:"column:product_uuid;type:char(36);not null"`
	ProductName string  `gorm:"column:product_name;type:varchar(128)"`
	Qty         int     `gorm:"column:qty;not null"`
	UnitPrice   float64 `gorm:"column:unit_price;type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string {
	return "pos_order_item"
}
