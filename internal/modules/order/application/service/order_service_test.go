package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	catalogEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
	catalogRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/repository"
	catalogPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/infrastructure/persistence"
	orderRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/application/dto/request"
	orderEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/entity"
	orderPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

type capturedEvent struct {
	Topic   string
	Event   string
	Payload broadcast.Payload
}

type captureGateway struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (g *captureGateway) Publish(topic string, event string, payload broadcast.Payload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, capturedEvent{Topic: topic, Event: event, Payload: payload})
	return nil
}

func (g *captureGateway) byEvent(event string) []capturedEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []capturedEvent
	for _, e := range g.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func newOrderService(t *testing.T) (OrderService, catalogRepository.ProductRepository, *captureGateway) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_svc_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogEntity.Product{},
		&orderEntity.Order{},
		&orderEntity.OrderItem{},
	))

	productRepo := catalogPersistence.NewProductRepository(db)
	orderRepo := orderPersistence.NewOrderRepository(db)
	gw := &captureGateway{}
	return NewOrderService(orderRepo, productRepo, gw), productRepo, gw
}

func seedProduct(t *testing.T, repo catalogRepository.ProductRepository, uuid string, price float64, stock int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, repo.Create(&catalogEntity.Product{
		Uuid:      uuid,
		Sku:       "SKU-" + uuid,
		Name:      "Phone " + uuid,
		Brand:     "Acme",
		Price:     price,
		Stock:     stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	svc, productRepo, gw := newOrderService(t)
	seedProduct(t, productRepo, "p1", 299.99, 5)

	order, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		CustomerName: "Dara",
		Items:        []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 2}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNo)
	assert.Equal(t, orderEntity.StatusPending, order.Status)
	assert.InDelta(t, 599.98, order.Total, 0.001)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Qty)

	p, err := productRepo.GetByUuid("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	assert.Len(t, gw.byEvent(broadcast.EventOrderNotification), 1)
	assert.Len(t, gw.byEvent(broadcast.EventStockUpdated), 1)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, productRepo, _ := newOrderService(t)
	seedProduct(t, productRepo, "p1", 100, 1)

	_, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 3}},
	})
	require.Error(t, err)

	// The failed order must not have touched stock.
	p, err := productRepo.GetByUuid("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, _ := newOrderService(t)
	_, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "nope", Qty: 1}},
	})
	assert.Error(t, err)
}

func TestMarkPaidPublishesPaymentVerification(t *testing.T) {
	svc, productRepo, gw := newOrderService(t)
	seedProduct(t, productRepo, "p1", 100, 5)

	order, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 1}},
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(orderRequest.MarkPaidRequest{
		OrderNo:    order.OrderNo,
		PaymentRef: "KHQR-TX-42",
	})
	require.NoError(t, err)
	assert.Equal(t, orderEntity.StatusPaid, paid.Status)
	assert.Equal(t, "KHQR-TX-42", paid.PaymentRef)

	events := gw.byEvent(broadcast.EventPaymentCompleted)
	require.Len(t, events, 1)
	assert.Equal(t, broadcast.TopicPayments, events[0].Topic)
	assert.Equal(t, order.OrderNo, events[0].Payload["order_no"])
	assert.Equal(t, "KHQR-TX-42", events[0].Payload["payment_ref"])
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc, _, _ := newOrderService(t)
	_, err := svc.MarkPaid(orderRequest.MarkPaidRequest{OrderNo: "PO-NOPE"})
	assert.Error(t, err)
}

func TestMarkPaidRejectsCancelledOrder(t *testing.T) {
	svc, productRepo, gw := newOrderService(t)
	seedProduct(t, productRepo, "p1", 100, 5)

	order, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelOrder(order.OrderNo))

	// A payment landing after cancellation must not revive the order:
	// its stock was already returned.
	_, err = svc.MarkPaid(orderRequest.MarkPaidRequest{
		OrderNo:    order.OrderNo,
		PaymentRef: "KHQR-TX-LATE",
	})
	require.Error(t, err)

	got, err := svc.GetOrder(order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, orderEntity.StatusCancelled, got.Status)
	assert.Empty(t, got.PaymentRef)

	p, err := productRepo.GetByUuid("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	assert.Empty(t, gw.byEvent(broadcast.EventPaymentCompleted))
}

func TestCancelOrderRestocks(t *testing.T) {
	svc, productRepo, _ := newOrderService(t)
	seedProduct(t, productRepo, "p1", 100, 5)

	order, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelOrder(order.OrderNo))

	p, err := productRepo.GetByUuid("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	got, err := svc.GetOrder(order.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, orderEntity.StatusCancelled, got.Status)

	// Cancelling twice must not restock twice.
	require.NoError(t, svc.CancelOrder(order.OrderNo))
	p, err = productRepo.GetByUuid("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	svc, productRepo, _ := newOrderService(t)
	seedProduct(t, productRepo, "p1", 100, 10)

	first, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 1}},
	})
	require.NoError(t, err)
	second, err := svc.CreateOrder(orderRequest.CreateOrderRequest{
		Items: []orderRequest.OrderLineRequest{{ProductUuid: "p1", Qty: 1}},
	})
	require.NoError(t, err)

	orders, err := svc.ListRecentOrders(10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderNo, orders[0].OrderNo)
	assert.Equal(t, first.OrderNo, orders[1].OrderNo)
}
