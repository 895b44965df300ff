package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Media struct {
	ID  DocID  `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type ProductVariant struct {
	Label string           `json:"label"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock int              `json:"stock"`
}

type Product struct {
	ID          DocID            `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Images      []Media          `json:"images,omitempty"`
	Category    DocID            `json:"category,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Store       DocID            `json:"store,omitempty"`
	Status      string           `json:"status,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PriceFor returns the variant price when the variant overrides it.
func (p Product) PriceFor(variant string) decimal.Decimal {
	for _, v := range p.Variants {
		if v.Label == variant && v.Price != nil {
			return *v.Price
		}
	}
	return p.Price
}

type Category struct {
	ID        DocID     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     *Media    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type HomeLayout struct {
	ID       DocID           `json:"id"`
	Store    DocID           `json:"store"`
	Sections json.RawMessage `json:"sections"`
}

type PrivacyPolicy struct {
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
