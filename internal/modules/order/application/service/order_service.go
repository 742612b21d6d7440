package service

import (
	"errors"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	catalogRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/repository"
	orderRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/dto/request"
	orderRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/dto/respond"
	orderEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/entity"
	orderRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/repository"
	orderPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/infrastructure/persistence"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(req orderRequest.CreateOrderRequest) (*orderRespond.OrderItemRespond, error)
	MarkPaid(req orderRequest.MarkPaidRequest) (*orderRespond.OrderItemRespond, error)
	CancelOrder(orderNo string) error
	GetOrder(orderNo string) (*orderRespond.OrderItemRespond, error)
	ListRecentOrders(limit int) ([]orderRespond.OrderItemRespond, error)
}

type orderServiceImpl struct {
	orderRepo   orderRepository.OrderRepository
	productRepo catalogRepository.ProductRepository
	gateway     broadcast.Gateway
}

func NewOrderService(
	orderRepo orderRepository.OrderRepository,
	productRepo catalogRepository.ProductRepository,
	gateway broadcast.Gateway,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
	}
}

func (s *orderServiceImpl) CreateOrder(req orderRequest.CreateOrderRequest) (*orderRespond.OrderItemRespond, error) {
	if len(req.Items) == 0 {
		return nil, xerr.New(xerr.BadRequest, "order needs at least one line")
	}

	now := time.Now()
	order := &orderEntity.Order{
		OrderNo:       util.GenerateOrderNo(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        orderEntity.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, line := range req.Items {
		if line.ProductUuid == "" || line.Qty <= 0 {
			return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
		}
		p, err := s.productRepo.GetByUuid(line.ProductUuid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, xerr.New(xerr.NotFound, "product not found: "+line.ProductUuid)
			}
			zlog.Error(err.Error())
			return nil, xerr.ErrServerError
		}
		order.Items = append(order.Items, orderEntity.OrderItem{
			ProductUuid: p.Uuid,
			ProductName: p.Name,
			Qty:         line.Qty,
			UnitPrice:   p.Price,
		})
		order.Total += p.Price * float64(line.Qty)
	}

	if err := s.orderRepo.CreateWithItems(order); err != nil {
		if errors.Is(err, orderPersistence.ErrInsufficientStock) {
			return nil, xerr.New(xerr.BadRequest, "insufficient stock")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.publishOrder(order, "created")
	s.publishStockLevels(order)

	item := toOrderRespond(order)
	return &item, nil
}

func (s *orderServiceImpl) MarkPaid(req orderRequest.MarkPaidRequest) (*orderRespond.OrderItemRespond, error) {
	if req.OrderNo == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	rows, err := s.orderRepo.UpdateStatus(req.OrderNo, orderEntity.StatusPending, orderEntity.StatusPaid, req.PaymentRef)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if rows == 0 {
		// Missing order or one that already left pending; a cancelled
		// order must not flip to paid after its stock was returned.
		if _, err := s.orderRepo.GetByOrderNo(req.OrderNo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, xerr.New(xerr.NotFound, "order not found")
			}
			zlog.Error(err.Error())
			return nil, xerr.ErrServerError
		}
		return nil, xerr.New(xerr.BadRequest, "only pending orders can be marked paid")
	}

	order, err := s.orderRepo.GetByOrderNo(req.OrderNo)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	s.publishOrder(order, "paid")
	s.publish(broadcast.TopicPayments, broadcast.EventPaymentCompleted, broadcast.Payload{
		"order_no":    order.OrderNo,
		"amount":      order.Total,
		"payment_ref": order.PaymentRef,
	})

	item := toOrderRespond(order)
	return &item, nil
}

func (s *orderServiceImpl) CancelOrder(orderNo string) error {
	if orderNo == "" {
		return xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xerr.New(xerr.NotFound, "order not found")
		}
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if order.Status == orderEntity.StatusCancelled {
		return nil
	}
	if order.Status == orderEntity.StatusCompleted {
		return xerr.New(xerr.BadRequest, "completed orders cannot be cancelled")
	}

	rows, err := s.orderRepo.UpdateStatus(orderNo, order.Status, orderEntity.StatusCancelled, "")
	if err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if rows == 0 {
		// Lost the transition to a concurrent update; restocking here
		// would return the stock twice.
		return nil
	}
	if err := s.orderRepo.RestockItems(order); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}

	order.Status = orderEntity.StatusCancelled
	s.publishOrder(order, "cancelled")
	s.publishStockLevels(order)
	return nil
}

func (s *orderServiceImpl) GetOrder(orderNo string) (*orderRespond.OrderItemRespond, error) {
	if orderNo == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "order not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	item := toOrderRespond(order)
	return &item, nil
}

func (s *orderServiceImpl) ListRecentOrders(limit int) ([]orderRespond.OrderItemRespond, error) {
	orders, err := s.orderRepo.ListRecent(limit)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]orderRespond.OrderItemRespond, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderRespond(&orders[i]))
	}
	return out, nil
}

func (s *orderServiceImpl) publishOrder(order *orderEntity.Order, action string) {
	s.publish(broadcast.TopicOrders, broadcast.EventOrderNotification, broadcast.Payload{
		"order_no": order.OrderNo,
		"action":   action,
		"status":   order.Status,
		"total":    order.Total,
		"customer": order.CustomerName,
	})
}

// publishStockLevels mirrors the post-order stock of each line onto the
// products topic so dashboards refresh without polling.
func (s *orderServiceImpl) publishStockLevels(order *orderEntity.Order) {
	for i := range order.Items {
		item := order.Items[i]
		p, err := s.productRepo.GetByUuid(item.ProductUuid)
		if err != nil {
			continue
		}
		s.publish(broadcast.TopicProducts, broadcast.EventStockUpdated, broadcast.Payload{
			"product_id": p.Uuid,
			"sku":        p.Sku,
			"stock":      p.Stock,
		})
	}
}

func (s *orderServiceImpl) publish(topic string, event string, payload broadcast.Payload) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Publish(topic, event, payload); err != nil {
		zlog.Error(err.Error())
	}
}

func toOrderRespond(o *orderEntity.Order) orderRespond.OrderItemRespond {
	items := make([]orderRespond.OrderLineItem, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, orderRespond.OrderLineItem{
			ProductUuid: o.Items[i].ProductUuid,
			ProductName: o.Items[i].ProductName,
			Qty:         o.Items[i].Qty,
			UnitPrice:   o.Items[i].UnitPrice,
		})
	}
	return orderRespond.OrderItemRespond{
		OrderNo:       o.OrderNo,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Status:        o.Status,
		Total:         o.Total,
		PaymentRef:    o.PaymentRef,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		Items:         items,
	}
}
