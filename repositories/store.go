package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrKeyNotFound = errors.New("local store: key not found")

// Keys a device keeps in its local mirror.
const (
	KeyCartID      = "cartId"
	KeyCartItems   = "cart_items"
	KeyFavorites   = "user_favorites"
	KeyAddresses   = "user_addresses"
	KeyAuthToken   = "auth_token"
	KeyUserData    = "user_data"
	KeyAppSettings = "app_settings"
)

// LocalStore is an opaque blob store keyed by string.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func DeviceKey(deviceID, key string) string {
	return "device:" + deviceID + ":" + key
}

// LoadJSON decodes the blob at key into out. found is false when the key is
// missing, in which case out is left untouched.
func LoadJSON(ctx context.Context, store LocalStore, key string, out interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SaveJSON(ctx context.Context, store LocalStore, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw, ttl)
}
