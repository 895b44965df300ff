package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/libs"
	"storefront/models"
	"storefront/repositories"
)

// slowOrders runs during inside Create, before the order reaches the CMS.
type slowOrders struct {
	OrderStore
	during func()
}

func (o *slowOrders) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	o.during()
	return o.OrderStore.Create(ctx, order)
}

func checkout() models.PlaceOrderRequest {
	return models.PlaceOrderRequest{
		ShippingAddress: models.AddressRequest{
			Name: "Ana", Line1: "1 Main St", City: "Springfield", State: "IL",
			PostalCode: "62701", Country: "US", Phone: "555",
		},
		PaymentMethod: "cod",
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	h := newHarness(t)
	session := h.login(t)

	_, err := h.orders.PlaceOrder(context.Background(), testDevice, session, checkout())
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestPlaceOrderCreatesLinksAndClears(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	session := h.login(t)
	h.cms.AddDiscount("FIVE", models.DiscountFixed, 5, true, false, testStore)

	_, err := h.carts.AddItem(ctx, testDevice, AddItemInput{ProductID: "42", Price: price("20")})
	require.NoError(t, err)
	cart, err := h.carts.ApplyDiscountCode(ctx, testDevice, "FIVE")
	require.NoError(t, err)

	order, err := h.orders.PlaceOrder(ctx, testDevice, session, checkout())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, session.User.Customer, order.Customer)
	assert.Equal(t, "15", order.Total.String())
	assert.Len(t, order.Discounts, 1)

	h.cms.Lock()
	orders := h.cms.Customers[session.User.Customer].Orders
	h.cms.Unlock()
	assert.Equal(t, []models.DocID{order.ID}, orders)

	stored, _ := h.cms.Cart(cart.ID)
	assert.Empty(t, stored.Items)
	_, ok, err := h.mirror.CartID(ctx, testDevice)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := h.orders.GetOrders(ctx, session, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Meta.TotalItems)

	got, err := h.orders.GetOrderByID(ctx, session, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestGetOrderOfAnotherCustomerIsNotFound(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	session := h.login(t)

	h.cms.Lock()
	h.cms.Orders["555"] = &models.Order{ID: "555", Customer: "someone-else"}
	h.cms.Unlock()

	_, err := h.orders.GetOrderByID(ctx, session, "555")
	assert.True(t, models.IsNotFound(err))
}

func TestItemAddedDuringCheckoutLandsInNextCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	session := h.login(t)

	first, err := h.carts.AddItem(ctx, testDevice, AddItemInput{ProductID: "1", Price: price("10")})
	require.NoError(t, err)

	client, err := libs.NewPayloadClient(libs.PayloadConfig{BaseURL: h.cms.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)

	added := make(chan error, 1)
	orders := NewOrderService(&slowOrders{
		OrderStore: repositories.NewOrderRepository(client),
		during: func() {
			started := make(chan struct{})
			go func() {
				close(started)
				_, err := h.carts.AddItem(ctx, testDevice, AddItemInput{ProductID: "2", Price: price("3")})
				added <- err
			}()
			<-started
			time.Sleep(20 * time.Millisecond)
		},
	}, repositories.NewCustomerRepository(client), h.carts, testStore, zaptest.NewLogger(t))

	order, err := orders.PlaceOrder(ctx, testDevice, session, checkout())
	require.NoError(t, err)
	require.NoError(t, <-added)

	require.Len(t, order.Items, 1)
	assert.Equal(t, models.DocID("1"), order.Items[0].Product)

	cart, err := h.carts.GetCart(ctx, testDevice)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, cart.ID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, models.DocID("2"), cart.Items[0].Product)
}
