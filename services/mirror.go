package services

import (
	"context"
	"encoding/json"

	"storefront/models"
	"storefront/repositories"
)

// DeviceMirror is the per-device slice of the local store: everything the
// storefront app used to keep on the phone.
type DeviceMirror struct {
	store repositories.LocalStore
}

func NewDeviceMirror(store repositories.LocalStore) *DeviceMirror {
	return &DeviceMirror{store: store}
}

func (m *DeviceMirror) load(ctx context.Context, device, key string, out interface{}) (bool, error) {
	return repositories.LoadJSON(ctx, m.store, repositories.DeviceKey(device, key), out)
}

func (m *DeviceMirror) save(ctx context.Context, device, key string, v interface{}) error {
	return repositories.SaveJSON(ctx, m.store, repositories.DeviceKey(device, key), v, 0)
}

func (m *DeviceMirror) clear(ctx context.Context, device string, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, repositories.DeviceKey(device, k))
	}
	return m.store.Delete(ctx, full...)
}

func (m *DeviceMirror) CartID(ctx context.Context, device string) (models.DocID, bool, error) {
	var id models.DocID
	found, err := m.load(ctx, device, repositories.KeyCartID, &id)
	if err != nil || !found || id == "" {
		return "", false, err
	}
	return id, true, nil
}

func (m *DeviceMirror) SetCartID(ctx context.Context, device string, id models.DocID) error {
	return m.save(ctx, device, repositories.KeyCartID, string(id))
}

func (m *DeviceMirror) CartItems(ctx context.Context, device string) ([]models.CartLine, error) {
	items := []models.CartLine{}
	if _, err := m.load(ctx, device, repositories.KeyCartItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *DeviceMirror) SaveCartItems(ctx context.Context, device string, items []models.CartLine) error {
	if items == nil {
		items = []models.CartLine{}
	}
	return m.save(ctx, device, repositories.KeyCartItems, items)
}

func (m *DeviceMirror) ClearCart(ctx context.Context, device string) error {
	return m.clear(ctx, device, repositories.KeyCartID, repositories.KeyCartItems)
}

// Session returns the stored login, or nil for an anonymous device.
func (m *DeviceMirror) Session(ctx context.Context, device string) (*models.Session, error) {
	var token string
	found, err := m.load(ctx, device, repositories.KeyAuthToken, &token)
	if err != nil || !found || token == "" {
		return nil, err
	}

	session := &models.Session{Token: token}
	if _, err := m.load(ctx, device, repositories.KeyUserData, session); err != nil {
		return nil, err
	}
	session.Token = token
	return session, nil
}

func (m *DeviceMirror) SaveSession(ctx context.Context, device string, s *models.Session) error {
	if err := m.save(ctx, device, repositories.KeyAuthToken, s.Token); err != nil {
		return err
	}
	return m.save(ctx, device, repositories.KeyUserData, s)
}

// ClearSession forgets the login. The address list goes with it: while
// signed in it caches the customer's CMS addresses.
func (m *DeviceMirror) ClearSession(ctx context.Context, device string) error {
	return m.clear(ctx, device, repositories.KeyAuthToken, repositories.KeyUserData, repositories.KeyAddresses)
}

func (m *DeviceMirror) Favorites(ctx context.Context, device string) ([]models.FavoriteProduct, error) {
	favs := []models.FavoriteProduct{}
	if _, err := m.load(ctx, device, repositories.KeyFavorites, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (m *DeviceMirror) SaveFavorites(ctx context.Context, device string, favs []models.FavoriteProduct) error {
	return m.save(ctx, device, repositories.KeyFavorites, favs)
}

func (m *DeviceMirror) ClearFavorites(ctx context.Context, device string) error {
	return m.clear(ctx, device, repositories.KeyFavorites)
}

func (m *DeviceMirror) Addresses(ctx context.Context, device string) ([]models.Address, error) {
	addrs := []models.Address{}
	if _, err := m.load(ctx, device, repositories.KeyAddresses, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (m *DeviceMirror) SaveAddresses(ctx context.Context, device string, addrs []models.Address) error {
	return m.save(ctx, device, repositories.KeyAddresses, addrs)
}

func (m *DeviceMirror) ClearAddresses(ctx context.Context, device string) error {
	return m.clear(ctx, device, repositories.KeyAddresses)
}

func (m *DeviceMirror) AppSettings(ctx context.Context, device string) (json.RawMessage, error) {
	var raw json.RawMessage
	found, err := m.load(ctx, device, repositories.KeyAppSettings, &raw)
	if err != nil || !found {
		return json.RawMessage("{}"), err
	}
	return raw, nil
}

func (m *DeviceMirror) SaveAppSettings(ctx context.Context, device string, settings json.RawMessage) error {
	return m.save(ctx, device, repositories.KeyAppSettings, settings)
}

// ClearAll forgets everything the device holds.
func (m *DeviceMirror) ClearAll(ctx context.Context, device string) error {
	return m.clear(ctx, device,
		repositories.KeyCartID,
		repositories.KeyCartItems,
		repositories.KeyFavorites,
		repositories.KeyAddresses,
		repositories.KeyAuthToken,
		repositories.KeyUserData,
		repositories.KeyAppSettings,
	)
}
