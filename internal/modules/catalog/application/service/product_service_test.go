package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	catalogRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/application/dto/request"
	catalogEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
	catalogPersistence "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

type captureGateway struct {
	mu     sync.Mutex
	events []string
}

func (g *captureGateway) Publish(_ string, event string, _ broadcast.Payload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
	return nil
}

func newProductService(t *testing.T) (ProductService, *captureGateway) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_svc_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogEntity.Product{}))
	gw := &captureGateway{}
	return NewProductService(catalogPersistence.NewProductRepository(db), gw), gw
}

func TestCreateAndListProducts(t *testing.T) {
	svc, gw := newProductService(t)

	created, err := svc.CreateProduct(catalogRequest.CreateProductRequest{
		Sku:   "GXA54-128",
		Name:  "Galaxy A54 128GB",
		Brand: "Samsung",
		Price: 379.00,
		Stock: 12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Uuid)
	assert.True(t, created.Active)

	items, err := svc.ListProducts(true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "GXA54-128", items[0].Sku)

	assert.Contains(t, gw.events, broadcast.EventProductUpdated)
}

func TestUpdateProductCanDeactivate(t *testing.T) {
	svc, _ := newProductService(t)

	created, err := svc.CreateProduct(catalogRequest.CreateProductRequest{
		Sku: "X", Name: "X Phone", Price: 100, Stock: 1,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateProduct(catalogRequest.UpdateProductRequest{
		Uuid:   created.Uuid,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	active, err := svc.ListProducts(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListProducts(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	svc, gw := newProductService(t)

	created, err := svc.CreateProduct(catalogRequest.CreateProductRequest{
		Sku: "X", Name: "X Phone", Price: 100, Stock: 3,
	})
	require.NoError(t, err)

	item, err := svc.AdjustStock(catalogRequest.AdjustStockRequest{Uuid: created.Uuid, Delta: -2})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stock)
	assert.Contains(t, gw.events, broadcast.EventStockUpdated)

	_, err = svc.AdjustStock(catalogRequest.AdjustStockRequest{Uuid: created.Uuid, Delta: -5})
	assert.Error(t, err)

	// Stock unchanged after the rejected adjustment.
	items, err := svc.ListProducts(true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Stock)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	svc, _ := newProductService(t)
	_, err := svc.AdjustStock(catalogRequest.AdjustStockRequest{Uuid: "nope", Delta: 1})
	assert.Error(t, err)
}
