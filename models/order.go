package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "pending"

type Order struct {
	ID               DocID           `json:"id"`
	OrderNumber      string          `json:"orderNumber,omitempty"`
	Customer         DocID           `json:"customer,omitempty"`
	Store            DocID           `json:"store"`
	Items            []CartLine      `json:"items"`
	Discounts        []DocID         `json:"discounts,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Total            decimal.Decimal `json:"total"`
	ShippingAddress  Address         `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
