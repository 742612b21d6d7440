package persistence

import (
	catalogEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
	catalogRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/repository"

	"gorm.io/gorm"
)

type productRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) catalogRepository.ProductRepository {
	return &productRepositoryImpl{db: db}
}

func (r *productRepositoryImpl) Create(product *catalogEntity.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepositoryImpl) Update(product *catalogEntity.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepositoryImpl) GetByUuid(uuid string) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	if err := r.db.Where("uuid = ?", uuid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepositoryImpl) List(activeOnly bool) ([]catalogEntity.Product, error) {
	q := r.db.Order("brand ASC, name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var products []catalogEntity.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepositoryImpl) AdjustStock(uuid string, delta int) (int64, error) {
	res := r.db.Exec(
		`UPDATE product SET stock = stock + ? WHERE uuid = ? AND stock + ? >= 0`,
		delta, uuid, delta,
	)
	return res.RowsAffected, res.Error
}
