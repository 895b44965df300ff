package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

func TestFavoritesNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	fav := models.FavoriteProduct{ProductID: "42", Title: "Tee"}

	_, err := h.favorites.Add(ctx, testDevice, fav)
	require.NoError(t, err)
	list, err := h.favorites.Add(ctx, testDevice, fav)
	require.NoError(t, err)

	assert.Len(t, list, 1)
	assert.False(t, list[0].AddedAt.IsZero())
}

func TestFavoriteToggle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.favorites.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	fav := models.FavoriteProduct{ProductID: "42", Title: "Tee"}

	list, added, err := h.favorites.Toggle(ctx, testDevice, fav)
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, list, 1)
	assert.Equal(t, 2026, list[0].AddedAt.Year())

	list, added, err = h.favorites.Toggle(ctx, testDevice, fav)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, list)

	is, err := h.favorites.IsFavorite(ctx, testDevice, "42")
	require.NoError(t, err)
	assert.False(t, is)
}

func TestFavoriteRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for _, id := range []models.DocID{"1", "2", "3"} {
		_, err := h.favorites.Add(ctx, testDevice, models.FavoriteProduct{ProductID: id})
		require.NoError(t, err)
	}

	list, err := h.favorites.Remove(ctx, testDevice, "2")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = h.favorites.Remove(ctx, testDevice, "missing")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, h.favorites.Clear(ctx, testDevice))
	list, err = h.favorites.List(ctx, testDevice)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestFavoriteRequiresProduct(t *testing.T) {
	h := newHarness(t)
	_, err := h.favorites.Add(context.Background(), testDevice, models.FavoriteProduct{})
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}
