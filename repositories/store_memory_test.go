package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), 0))

	v, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, store.Delete(ctx, "a", "b", "never-set"))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	raw := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", raw, 0))
	raw[0] = 'z'

	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	v[1] = 'z'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := DeviceKey("dev-1", KeyFavorites)
	assert.Equal(t, "device:dev-1:user_favorites", key)

	var out []string
	found, err := LoadJSON(ctx, store, key, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	require.NoError(t, SaveJSON(ctx, store, key, []string{"x", "y"}, 0))
	found, err = LoadJSON(ctx, store, key, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"x", "y"}, out)

	require.NoError(t, store.Set(ctx, key, []byte("{not json"), 0))
	_, err = LoadJSON(ctx, store, key, &out)
	assert.Error(t, err)
}
