package persistence

import (
	"errors"
	"time"

	orderEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/entity"
	orderRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/repository"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type orderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) orderRepository.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

func (r *orderRepositoryImpl) CreateWithItems(order *orderEntity.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := order.Items[i]
			res := tx.Exec(
				`UPDATE product SET stock = stock - ? WHERE uuid = ? AND stock >= ?`,
				item.Qty, item.ProductUuid, item.Qty,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return tx.Create(order).Error
	})
}

func (r *orderRepositoryImpl) GetByOrderNo(orderNo string) (*orderEntity.Order, error) {
	var o orderEntity.Order
	if err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepositoryImpl) UpdateStatus(orderNo string, fromStatus string, toStatus string, paymentRef string) (int64, error) {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	if paymentRef != "" {
		updates["payment_ref"] = paymentRef
	}
	res := r.db.Model(&orderEntity.Order{}).
		Where("order_no = ? AND status = ?", orderNo, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *orderRepositoryImpl) RestockItems(order *orderEntity.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range order.Items {
			item := order.Items[i]
			err := tx.Exec(
				`UPDATE product SET stock = stock + ? WHERE uuid = ?`,
				item.Qty, item.ProductUuid,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepositoryImpl) ListRecent(limit int) ([]orderEntity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []orderEntity.Order
	err := r.db.Preload("Items").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
