package repositories

import (
	"context"

	"storefront/libs"
	"storefront/models"
)

const (
	collectionProducts    = "products"
	collectionCategories  = "categories"
	collectionHomeLayouts = "home_layouts"
	globalPrivacyPolicies = "privacy-policies"
)

type ProductFilter struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

type ProductRepository struct {
	client  *libs.PayloadClient
	storeID models.DocID
}

func NewProductRepository(client *libs.PayloadClient, storeID models.DocID) *ProductRepository {
	return &ProductRepository{client: client, storeID: storeID}
}

func (r *ProductRepository) GetByID(ctx context.Context, id models.DocID) (*models.Product, error) {
	var p models.Product
	if err := r.client.FindByID(ctx, collectionProducts, id.String(), 1, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) (*libs.PaginatedDocs[models.Product], error) {
	q := libs.NewQuery().Page(f.Page).Limit(f.Limit).Depth(1).Sort("-createdAt")
	if r.storeID != "" {
		q.Equals("store", r.storeID)
	}
	if f.Category != "" {
		q.Equals("category", f.Category)
	}
	if f.Search != "" {
		q.Like("title", f.Search)
	}

	var page libs.PaginatedDocs[models.Product]
	if err := r.client.Find(ctx, collectionProducts, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	q := libs.NewQuery().Limit(100).Depth(1).Sort("name")

	var page libs.PaginatedDocs[models.Category]
	if err := r.client.Find(ctx, collectionCategories, q, &page); err != nil {
		return nil, err
	}
	return page.Docs, nil
}

func (r *ProductRepository) GetHomeLayout(ctx context.Context) (*models.HomeLayout, error) {
	q := libs.NewQuery().Equals("store", r.storeID).Limit(1).Depth(2)

	var page libs.PaginatedDocs[models.HomeLayout]
	if err := r.client.Find(ctx, collectionHomeLayouts, q, &page); err != nil {
		return nil, err
	}
	if len(page.Docs) == 0 {
		return nil, models.NewNotFound("home layout not found")
	}
	return &page.Docs[0], nil
}

func (r *ProductRepository) GetPrivacyPolicy(ctx context.Context) (*models.PrivacyPolicy, error) {
	var policy models.PrivacyPolicy
	if err := r.client.FindGlobal(ctx, globalPrivacyPolicies, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}
