package services

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"storefront/libs"
	"storefront/models"
)

type OrderService struct {
	orders    OrderStore
	customers CustomerStore
	carts     *CartService
	storeID   models.DocID
	log       *zap.Logger
}

func NewOrderService(orders OrderStore, customers CustomerStore, carts *CartService, storeID models.DocID, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orders:    orders,
		customers: customers,
		carts:     carts,
		storeID:   storeID,
		log:       log.Named("orders"),
	}
}

// PlaceOrder turns the device's cart into an order. The customer link is
// best effort; the cart is cleared once the order exists.
func (s *OrderService) PlaceOrder(ctx context.Context, device string, session *models.Session, req models.PlaceOrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, models.NewValidation("payment method is required", models.FieldError{Path: "payment_method", Message: "required"})
	}

	ctx = libs.WithAuthToken(ctx, session.Token)
	customerID := session.User.Customer

	var created *models.Order
	err := s.carts.Checkout(ctx, device, func(cart *models.Cart) error {
		order, err := s.orders.Create(ctx, models.Order{
			Customer:         customerID,
			Store:            s.storeID,
			Items:            cart.Items,
			Discounts:        discountIDs(cart.AppliedDiscounts),
			Subtotal:         cart.Subtotal,
			Total:            cart.Total,
			ShippingAddress:  req.ShippingAddress.ToAddress(),
			PaymentMethod:    req.PaymentMethod,
			PaymentReference: req.PaymentReference,
			Status:           models.OrderStatusPending,
		})
		if err != nil {
			return err
		}
		created = order

		if customerID != "" {
			if err := s.customers.AppendOrder(ctx, customerID, order.ID); err != nil {
				s.log.Error("linking order to customer failed",
					zap.String("order", order.ID.String()),
					zap.String("customer", customerID.String()),
					zap.Error(err),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order", created.ID.String()),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

func (s *OrderService) GetOrders(ctx context.Context, session *models.Session, page, limit int) (*models.PaginationResponse, error) {
	if session.User.Customer == "" {
		return nil, models.NewNotFound("no customer record for this account")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	result, err := s.orders.ListByCustomer(libs.WithAuthToken(ctx, session.Token), session.User.Customer, page, limit)
	if err != nil {
		return nil, err
	}
	orders := result.Docs
	if orders == nil {
		orders = []models.Order{}
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: result.TotalDocs,
			TotalPages: int(math.Ceil(float64(result.TotalDocs) / float64(limit))),
		},
	}, nil
}

// GetOrderByID only returns orders of the session's customer.
func (s *OrderService) GetOrderByID(ctx context.Context, session *models.Session, id models.DocID) (*models.Order, error) {
	order, err := s.orders.GetByID(libs.WithAuthToken(ctx, session.Token), id)
	if err != nil {
		return nil, err
	}
	if order.Customer == "" || order.Customer != session.User.Customer {
		return nil, models.NewNotFound("order not found")
	}
	return order, nil
}
