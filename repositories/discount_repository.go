package repositories

import (
	"context"

	"storefront/libs"
	"storefront/models"
)

const collectionDiscounts = "discounts"

type DiscountRepository struct {
	client *libs.PayloadClient
}

func NewDiscountRepository(client *libs.PayloadClient) *DiscountRepository {
	return &DiscountRepository{client: client}
}

// FindRedeemable returns the active, non-automatic discount with the given
// code in the given store, or a NotFound error.
func (r *DiscountRepository) FindRedeemable(ctx context.Context, storeID models.DocID, code string) (*models.Discount, error) {
	q := libs.NewQuery().
		Equals("code", code).
		Equals("active", true).
		Equals("isAutomatic", false).
		Equals("store", storeID).
		Limit(1).
		Depth(0)

	var page libs.PaginatedDocs[models.Discount]
	if err := r.client.Find(ctx, collectionDiscounts, q, &page); err != nil {
		return nil, err
	}
	if len(page.Docs) == 0 {
		return nil, models.NewNotFound("discount not found")
	}
	return &page.Docs[0], nil
}
