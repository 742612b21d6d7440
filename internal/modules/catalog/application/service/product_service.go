package service

import (
	"errors"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	catalogRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/dto/request"
	catalogRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/dto/respond"
	catalogEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
	catalogRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/repository"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(req catalogRequest.CreateProductRequest) (*catalogRespond.ProductItem, error)
	UpdateProduct(req catalogRequest.UpdateProductRequest) (*catalogRespond.ProductItem, error)
	AdjustStock(req catalogRequest.AdjustStockRequest) (*catalogRespond.ProductItem, error)
	ListProducts(activeOnly bool) ([]catalogRespond.ProductItem, error)
}

type productServiceImpl struct {
	productRepo catalogRepository.ProductRepository
	gateway     broadcast.Gateway
}

func NewProductService(productRepo catalogRepository.ProductRepository, gateway broadcast.Gateway) ProductService {
	return &productServiceImpl{productRepo: productRepo, gateway: gateway}
}

func (s *productServiceImpl) CreateProduct(req catalogRequest.CreateProductRequest) (*catalogRespond.ProductItem, error) {
	if req.Sku == "" || req.Name == "" || req.Price < 0 || req.Stock < 0 {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	now := time.Now()
	p := &catalogEntity.Product{
		Uuid:      util.GenerateUUID(),
		Sku:       req.Sku,
		Name:      req.Name,
		Brand:     req.Brand,
		Price:     req.Price,
		Stock:     req.Stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.productRepo.Create(p); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.New(xerr.BadRequest, "sku already exists")
	}

	s.publishProduct(broadcast.EventProductUpdated, p)
	item := toProductItem(p)
	return &item, nil
}

func (s *productServiceImpl) UpdateProduct(req catalogRequest.UpdateProductRequest) (*catalogRespond.ProductItem, error) {
	if req.Uuid == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	p, err := s.productRepo.GetByUuid(req.Uuid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "product not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Brand != "" {
		p.Brand = req.Brand
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	p.UpdatedAt = time.Now()

	if err := s.productRepo.Update(p); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.publishProduct(broadcast.EventProductUpdated, p)
	item := toProductItem(p)
	return &item, nil
}

func (s *productServiceImpl) AdjustStock(req catalogRequest.AdjustStockRequest) (*catalogRespond.ProductItem, error) {
	if req.Uuid == "" || req.Delta == 0 {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	rows, err := s.productRepo.AdjustStock(req.Uuid, req.Delta)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if rows == 0 {
		return nil, xerr.New(xerr.BadRequest, "product not found or insufficient stock")
	}

	p, err := s.productRepo.GetByUuid(req.Uuid)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.publishStock(p, req.Delta)
	item := toProductItem(p)
	return &item, nil
}

func (s *productServiceImpl) ListProducts(activeOnly bool) ([]catalogRespond.ProductItem, error) {
	products, err := s.productRepo.List(activeOnly)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]catalogRespond.ProductItem, 0, len(products))
	for i := range products {
		out = append(out, toProductItem(&products[i]))
	}
	return out, nil
}

func (s *productServiceImpl) publishProduct(event string, p *catalogEntity.Product) {
	if s.gateway == nil {
		return
	}
	err := s.gateway.Publish(broadcast.TopicProducts, event, broadcast.Payload{
		"product_id": p.Uuid,
		"sku":        p.Sku,
		"name":       p.Name,
		"price":      p.Price,
		"stock":      p.Stock,
		"active":     p.Active,
	})
	if err != nil {
		zlog.Error(err.Error())
	}
}

func (s *productServiceImpl) publishStock(p *catalogEntity.Product, delta int) {
	if s.gateway == nil {
		return
	}
	err := s.gateway.Publish(broadcast.TopicProducts, broadcast.EventStockUpdated, broadcast.Payload{
		"product_id": p.Uuid,
		"sku":        p.Sku,
		"stock":      p.Stock,
		"delta":      delta,
	})
	if err != nil {
		zlog.Error(err.Error())
	}
}

func toProductItem(p *catalogEntity.Product) catalogRespond.ProductItem {
	return catalogRespond.ProductItem{
		Uuid:      p.Uuid,
		Sku:       p.Sku,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Stock:     p.Stock,
		Active:    p.Active,
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
