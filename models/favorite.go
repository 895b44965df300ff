package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type FavoriteProduct struct {
	ProductID DocID           `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	AddedAt   time.Time       `json:"addedAt"`
}
