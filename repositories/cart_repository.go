package repositories

import (
	"context"

	"storefront/libs"
	"storefront/models"
)

const (
	collectionCart = "cart"
	// cart reads populate appliedDiscounts so codes and values are available.
	cartReadDepth = 1
)

type CartRepository struct {
	client *libs.PayloadClient
}

func NewCartRepository(client *libs.PayloadClient) *CartRepository {
	return &CartRepository{client: client}
}

func (r *CartRepository) FindByID(ctx context.Context, id models.DocID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.client.FindByID(ctx, collectionCart, id.String(), cartReadDepth, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Create(ctx context.Context, storeID, customerID models.DocID) (*models.Cart, error) {
	body := map[string]interface{}{
		"store":            storeID,
		"items":            []models.CartLine{},
		"appliedDiscounts": []models.DocID{},
	}
	if customerID != "" {
		body["customer"] = customerID
	}

	var cart models.Cart
	if err := r.client.Create(ctx, collectionCart, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Update replaces the given top-level fields of the cart document.
func (r *CartRepository) Update(ctx context.Context, id models.DocID, patch models.CartPatch) (*models.Cart, error) {
	body := map[string]interface{}{}
	if patch.Items != nil {
		body["items"] = *patch.Items
	}
	if patch.AppliedDiscounts != nil {
		body["appliedDiscounts"] = *patch.AppliedDiscounts
	}
	if patch.Customer != nil {
		body["customer"] = *patch.Customer
	}

	var cart models.Cart
	if err := r.client.UpdateByID(ctx, collectionCart, id.String(), body, cartReadDepth, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
