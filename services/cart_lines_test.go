package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/models"
)

func TestAddLineDoesNotMutateInput(t *testing.T) {
	in := []models.CartLine{{Product: "1", Quantity: 1}}

	out := addLine(in, "1", "", decimal.Zero)

	assert.Equal(t, 1, in[0].Quantity)
	assert.Equal(t, 2, out[0].Quantity)
}

func TestRemoveLine(t *testing.T) {
	in := []models.CartLine{
		{Product: "1", Quantity: 2},
		{Product: "2", Quantity: 1},
	}

	out, changed := removeLine(in, "1", "")
	assert.True(t, changed)
	assert.Equal(t, 1, out[0].Quantity)

	out, changed = removeLine(out, "2", "")
	assert.True(t, changed)
	assert.Len(t, out, 1)
	assert.Len(t, in, 2)

	_, changed = removeLine(out, "3", "")
	assert.False(t, changed)
}

func TestWithTotals(t *testing.T) {
	tests := []struct {
		name      string
		discounts []models.AppliedDiscount
		subtotal  string
		total     string
	}{
		{"no discounts", nil, "30", "30"},
		{"percentage", []models.AppliedDiscount{{Type: models.DiscountPercentage, Value: decimal.NewFromInt(15)}}, "30", "25.5"},
		{"fixed", []models.AppliedDiscount{{Type: models.DiscountFixed, Value: decimal.NewFromInt(5)}}, "30", "25"},
		{"floor at zero", []models.AppliedDiscount{{Type: models.DiscountFixed, Value: decimal.NewFromInt(100)}}, "30", "0"},
		{"unpopulated ref", []models.AppliedDiscount{{ID: "9"}}, "30", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &models.Cart{
				Items: []models.CartLine{
					{Product: "1", Quantity: 2, Price: decimal.RequireFromString("10.00")},
					{Product: "2", Quantity: 1, Price: decimal.RequireFromString("10.00")},
				},
				AppliedDiscounts: tt.discounts,
			}

			withTotals(cart)

			assert.Equal(t, tt.subtotal, cart.Subtotal.String())
			assert.Equal(t, tt.total, cart.Total.String())
		})
	}
}
