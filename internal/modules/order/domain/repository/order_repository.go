package repository

import (
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/entity"
)

type OrderRepository interface {
	// CreateWithItems persists the order and its items and decrements each
	// product's stock in one transaction; the whole order fails when any
	// line has insufficient stock.
	CreateWithItems(order *entity.Order) error
	GetByOrderNo(orderNo string) (*entity.Order, error)
	// UpdateStatus moves the order from fromStatus to toStatus. The status
	// guard makes the transition conditional: zero rows means the order is
	// missing or no longer in fromStatus, and the caller decides which.
	UpdateStatus(orderNo string, fromStatus string, toStatus string, paymentRef string) (int64, error)
	// RestockItems returns each item's quantity to product stock (order
	// cancellation).
	RestockItems(order *entity.Order) error
	ListRecent(limit int) ([]entity.Order, error)
}
