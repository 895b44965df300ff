package repositories

import (
	"context"

	"storefront/libs"
	"storefront/models"
)

const collectionOrders = "orders"

type OrderRepository struct {
	client *libs.PayloadClient
}

func NewOrderRepository(client *libs.PayloadClient) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	body := map[string]interface{}{
		"store":            order.Store,
		"items":            order.Items,
		"discounts":        order.Discounts,
		"subtotal":         order.Subtotal,
		"total":            order.Total,
		"shippingAddress":  order.ShippingAddress,
		"paymentMethod":    order.PaymentMethod,
		"paymentReference": order.PaymentReference,
		"status":           order.Status,
	}
	if order.Customer != "" {
		body["customer"] = order.Customer
	}

	var created models.Order
	if err := r.client.Create(ctx, collectionOrders, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id models.DocID) (*models.Order, error) {
	var o models.Order
	if err := r.client.FindByID(ctx, collectionOrders, id.String(), 0, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID models.DocID, page, limit int) (*libs.PaginatedDocs[models.Order], error) {
	q := libs.NewQuery().
		Equals("customer", customerID).
		Page(page).
		Limit(limit).
		Depth(0).
		Sort("-createdAt")

	var out libs.PaginatedDocs[models.Order]
	if err := r.client.Find(ctx, collectionOrders, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
