package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/repositories"
)

func TestProductListIsPaginatedAndCached(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.cms.AddProduct(models.Product{Title: "P", Price: decimal.NewFromInt(1), Store: testStore})
	}

	f := repositories.ProductFilter{Page: 1, Limit: 2}
	page, err := h.products.GetAllProducts(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Data, 2)

	calls := h.cms.CountCalls("GET", "/api/products")
	_, err = h.products.GetAllProducts(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, calls, h.cms.CountCalls("GET", "/api/products"))
}

func TestProductByIDNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.products.GetProductByID(context.Background(), "404")
	assert.True(t, models.IsNotFound(err))
}

func TestHomeLayoutIsStoreScoped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.products.GetHomeLayout(ctx)
	assert.True(t, models.IsNotFound(err))

	h.cms.Lock()
	h.cms.HomeLayouts = []models.HomeLayout{
		{ID: "1", Store: "8", Sections: json.RawMessage(`[]`)},
		{ID: "2", Store: testStore, Sections: json.RawMessage(`[{"type":"hero"}]`)},
	}
	h.cms.Unlock()

	layout, err := h.products.GetHomeLayout(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DocID("2"), layout.ID)
	assert.JSONEq(t, `[{"type":"hero"}]`, string(layout.Sections))
}

func TestCategoriesNeverNil(t *testing.T) {
	h := newHarness(t)
	categories, err := h.products.GetAllCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
}

func TestRelativeMediaURLsUseStorageURL(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.cms.AddProduct(models.Product{
		Title: "Tee",
		Price: decimal.NewFromInt(10),
		Store: testStore,
		Images: []models.Media{
			{ID: "1", URL: "/uploads/tee.jpg"},
			{ID: "2", URL: "https://images.example.com/tee-back.jpg"},
		},
	})

	got, err := h.products.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://cdn.example.com/media/uploads/tee.jpg", got.Images[0].URL)
	assert.Equal(t, "https://images.example.com/tee-back.jpg", got.Images[1].URL)

	page, err := h.products.GetAllProducts(ctx, repositories.ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	listed := page.Data.([]models.Product)
	require.Len(t, listed, 1)
	assert.Equal(t, "https://cdn.example.com/media/uploads/tee.jpg", listed[0].Images[0].URL)
}
