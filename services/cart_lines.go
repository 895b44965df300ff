package services

import (
	"github.com/shopspring/decimal"

	"storefront/models"
)

var hundred = decimal.NewFromInt(100)

func findLine(items []models.CartLine, productID models.DocID, variant string) int {
	for i, line := range items {
		if line.Matches(productID, variant) {
			return i
		}
	}
	return -1
}

func copyLines(items []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(items))
	copy(out, items)
	return out
}

// addLine bumps the matching line by one or appends a new quantity-1 line.
func addLine(items []models.CartLine, productID models.DocID, variant string, price decimal.Decimal) []models.CartLine {
	out := copyLines(items)
	if i := findLine(out, productID, variant); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, models.CartLine{
		Product:  productID,
		Variant:  variant,
		Quantity: 1,
		Price:    price,
	})
}

// removeLine decrements the matching line and drops it at zero. The bool
// is false when no line matched.
func removeLine(items []models.CartLine, productID models.DocID, variant string) ([]models.CartLine, bool) {
	i := findLine(items, productID, variant)
	if i < 0 {
		return items, false
	}
	out := copyLines(items)
	if out[i].Quantity > 1 {
		out[i].Quantity--
		return out, true
	}
	return append(out[:i], out[i+1:]...), true
}

// setLineQuantity sets an absolute quantity; qty <= 0 drops the line.
func setLineQuantity(items []models.CartLine, productID models.DocID, variant string, qty int, price decimal.Decimal) ([]models.CartLine, bool) {
	i := findLine(items, productID, variant)
	if i < 0 {
		if qty <= 0 {
			return items, false
		}
		return append(copyLines(items), models.CartLine{
			Product:  productID,
			Variant:  variant,
			Quantity: qty,
			Price:    price,
		}), true
	}

	out := copyLines(items)
	if qty <= 0 {
		return append(out[:i], out[i+1:]...), true
	}
	if out[i].Quantity == qty {
		return items, false
	}
	out[i].Quantity = qty
	return out, true
}

func discountIDs(applied []models.AppliedDiscount) []models.DocID {
	ids := make([]models.DocID, 0, len(applied))
	for _, d := range applied {
		ids = append(ids, d.ID)
	}
	return ids
}

func discountAmount(d models.AppliedDiscount, subtotal decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case models.DiscountPercentage:
		return subtotal.Mul(d.Value).Div(hundred)
	case models.DiscountFixed:
		return d.Value
	default:
		return decimal.Zero
	}
}

// withTotals fills Subtotal and Total for display. The CMS stays the
// authority on what is actually charged.
func withTotals(cart *models.Cart) *models.Cart {
	subtotal := decimal.Zero
	for _, line := range cart.Items {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	off := decimal.Zero
	for _, d := range cart.AppliedDiscounts {
		off = off.Add(discountAmount(d, subtotal))
	}

	total := subtotal.Sub(off)
	if total.IsNegative() {
		total = decimal.Zero
	}

	cart.Subtotal = subtotal.Round(2)
	cart.Total = total.Round(2)
	return cart
}
