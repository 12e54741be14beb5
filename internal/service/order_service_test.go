package service

import (
	"context"
	"math"
	"testing"

	"dellasoft/internal/dto"
	"dellasoft/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *memOrders
	catalog   *memCatalog
	customers *memCustomers
	txs       *memTransactions
	svc       OrderService

	customer *model.Customer
	bread    model.Product
	cake     model.Product
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   newMemOrders(),
		catalog:  newMemCatalog(),
		txs:      &memTransactions{},
		customer: &model.Customer{ID: uuid.New(), Name: "Marta", LastName: "Gómez"},
	}
	f.customers = newMemCustomers(f.customer)
	f.bread = f.catalog.addProduct("Pan francés", 1200)
	f.cake = f.catalog.addProduct("Torta de ricota", 15000)
	f.svc = NewOrderService(f.orders, f.customers, f.catalog, f.txs, FixedClock{At: march14})
	return f
}

func TestCreateOrder_SnapshotsPrices(t *testing.T) {
	f := newOrderFixture()
	delivery := "2026-03-20"

	resp, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID:   f.customer.ID.String(),
		Observation:  "sin azúcar",
		DeliveryDate: &delivery,
		Items: []dto.OrderItemRequest{
			{ProductID: f.bread.ID.String(), Quantity: 3},
			{ProductID: f.cake.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3*1200+15000), resp.TotalOrder)
	assert.Equal(t, int64(0), resp.TotalPaid)
	assert.Equal(t, resp.TotalOrder, resp.Pending)
	assert.Equal(t, "Marta Gómez", resp.Customer)
	require.NotNil(t, resp.OrderDate)
	assert.Equal(t, "2026-03-14", *resp.OrderDate)
	require.NotNil(t, resp.DeliveryDate)
	assert.Equal(t, delivery, *resp.DeliveryDate)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Pan francés", resp.Items[0].Product)
	assert.Equal(t, int64(3600), resp.Items[0].Subtotal)

	// later price changes do not touch the stored order
	f.catalog.products[0].Price = 9999
	got, err := f.svc.Get(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, resp.TotalOrder, got.TotalOrder)
}

func TestCreateOrder_Rejections(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID: uuid.NewString(),
		Items:      []dto.OrderItemRequest{{ProductID: f.bread.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	f.catalog.products[1].Active = false
	_, err = f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: f.cake.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	bad := "14/03/2026"
	_, err = f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID:   f.customer.ID.String(),
		DeliveryDate: &bad,
		Items:        []dto.OrderItemRequest{{ProductID: f.bread.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.orders.rows)
}

func TestCreateOrder_RejectsOverflowingTotals(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	// 1200 * 15372286728091294 wraps around to 1184
	_, err := f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: f.bread.ID.String(), Quantity: 15372286728091294}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// each subtotal fits, their sum does not
	perItem := int64(math.MaxInt64/15000) - 1
	_, err = f.svc.Create(ctx, dto.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items: []dto.OrderItemRequest{
			{ProductID: f.cake.ID.String(), Quantity: perItem},
			{ProductID: f.cake.ID.String(), Quantity: perItem},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, f.orders.rows)
}

func TestCreateOrder_StorageFailure(t *testing.T) {
	f := newOrderFixture()
	f.orders.failWrite = errBoom

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID: f.customer.ID.String(),
		Items:      []dto.OrderItemRequest{{ProductID: f.bread.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestOrderPendingAndDetails(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order := &model.Order{ID: uuid.New(), CustomerID: f.customer.ID, TotalOrder: 10000, TotalPaid: 2500}
	f.orders.rows[order.ID] = order

	pending, err := f.svc.Pending(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), pending)
	again, err := f.svc.Pending(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, pending, again)

	obs := "retira a las 18"
	day := "2026-03-21"
	resp, err := f.svc.UpdateDetails(ctx, order.ID, dto.UpdateOrderRequest{Observation: &obs, DeliveryDate: &day})
	require.NoError(t, err)
	assert.Equal(t, obs, resp.Observation)
	assert.Equal(t, int64(2500), f.orders.rows[order.ID].TotalPaid)
	require.NotNil(t, f.orders.rows[order.ID].DeliveryDate)

	empty := ""
	_, err = f.svc.UpdateDetails(ctx, order.ID, dto.UpdateOrderRequest{DeliveryDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, f.orders.rows[order.ID].DeliveryDate)
	assert.Equal(t, obs, f.orders.rows[order.ID].Observation)

	_, err = f.svc.Pending(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_DateRangeIsInclusive(t *testing.T) {
	f := newOrderFixture()
	for _, day := range []int{13, 14, 15} {
		d := march14.AddDate(0, 0, day-14)
		o := &model.Order{ID: uuid.New(), CustomerID: f.customer.ID, OrderDate: &d}
		f.orders.rows[o.ID] = o
	}

	resp, err := f.svc.List(context.Background(), dto.OrderFilter{From: "2026-03-14", To: "2026-03-14"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	_, err = f.svc.List(context.Background(), dto.OrderFilter{From: "14-03-2026"})
	assert.ErrorIs(t, err, ErrValidation)
}
