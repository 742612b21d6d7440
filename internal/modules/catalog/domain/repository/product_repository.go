package repository

import (
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
)

type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByUuid(uuid string) (*entity.Product, error)
	List(activeOnly bool) ([]entity.Product, error)
	// AdjustStock applies the delta only while the result stays
	// non-negative; zero rows affected means unknown product or
	// insufficient stock.
	AdjustStock(uuid string, delta int) (int64, error)
}
