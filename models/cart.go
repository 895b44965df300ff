package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// CMS number fields reject quoted decimals.
	decimal.MarshalJSONWithoutQuotes = true
}

type CartLine struct {
	Product  DocID           `json:"product"`
	Variant  string          `json:"variant,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Matches reports whether the line holds the given (product, variant) pair.
func (l CartLine) Matches(productID DocID, variant string) bool {
	return l.Product == productID && l.Variant == variant
}

// AppliedDiscount is an entry of cart.appliedDiscounts. It decodes from a
// bare id (depth=0) or a populated discount document (depth>=1).
type AppliedDiscount struct {
	ID    DocID           `json:"id"`
	Code  string          `json:"code,omitempty"`
	Type  string          `json:"type,omitempty"`
	Value decimal.Decimal `json:"value"`
}

func (d *AppliedDiscount) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] != '{' {
		*d = AppliedDiscount{}
		return d.ID.UnmarshalJSON(trimmed)
	}
	type plain AppliedDiscount
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = AppliedDiscount(p)
	return nil
}

type Cart struct {
	ID               DocID             `json:"id"`
	Store            DocID             `json:"store"`
	Customer         DocID             `json:"customer,omitempty"`
	Items            []CartLine        `json:"items"`
	AppliedDiscounts []AppliedDiscount `json:"appliedDiscounts"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	Total            decimal.Decimal   `json:"total"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Discount struct {
	ID          DocID           `json:"id"`
	Code        string          `json:"code"`
	Active      bool            `json:"active"`
	IsAutomatic bool            `json:"isAutomatic"`
	Store       DocID           `json:"store"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
}

func (d Discount) Applied() AppliedDiscount {
	return AppliedDiscount{ID: d.ID, Code: d.Code, Type: d.Type, Value: d.Value}
}

// CartPatch lists the cart fields to replace; nil fields are left alone.
type CartPatch struct {
	Items            *[]CartLine
	AppliedDiscounts *[]DocID
	Customer         *DocID
}
