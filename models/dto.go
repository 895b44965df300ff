package models

import "github.com/shopspring/decimal"

type AddCartItemRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Variant   string           `json:"variant"`
	Price     *decimal.Decimal `json:"price"`
}

type RemoveCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Variant   string `json:"variant"`
}

type SetCartItemQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

type FavoriteRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

type AddressRequest struct {
	Name       string `json:"name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

func (r AddressRequest) ToAddress() Address {
	return Address{
		Name:       r.Name,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		Phone:      r.Phone,
		IsDefault:  r.IsDefault,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
	Phone    string `json:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PlaceOrderRequest struct {
	ShippingAddress  AddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod    string         `json:"payment_method" binding:"required"`
	PaymentReference string         `json:"payment_reference"`
}
