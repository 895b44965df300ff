package services

import (
	"context"
	"time"

	"storefront/models"
)

// FavoriteService keeps the device's favorites list. Favorites never reach
// the CMS.
type FavoriteService struct {
	mirror *DeviceMirror
	locks  *keyLock
	now    func() time.Time
}

func NewFavoriteService(mirror *DeviceMirror) *FavoriteService {
	return &FavoriteService{mirror: mirror, locks: newKeyLock(), now: time.Now}
}

func (s *FavoriteService) List(ctx context.Context, device string) ([]models.FavoriteProduct, error) {
	return s.mirror.Favorites(ctx, device)
}

// Add is a no-op for a product that is already a favorite.
func (s *FavoriteService) Add(ctx context.Context, device string, fav models.FavoriteProduct) ([]models.FavoriteProduct, error) {
	if fav.ProductID == "" {
		return nil, models.NewValidation("product is required", models.FieldError{Path: "product_id", Message: "required"})
	}

	unlock := s.locks.Lock(device)
	defer unlock()

	favs, err := s.mirror.Favorites(ctx, device)
	if err != nil {
		return nil, err
	}
	if indexOfFavorite(favs, fav.ProductID) >= 0 {
		return favs, nil
	}

	if fav.AddedAt.IsZero() {
		fav.AddedAt = s.now().UTC()
	}
	favs = append(favs, fav)
	return favs, s.mirror.SaveFavorites(ctx, device, favs)
}

func (s *FavoriteService) Remove(ctx context.Context, device string, productID models.DocID) ([]models.FavoriteProduct, error) {
	unlock := s.locks.Lock(device)
	defer unlock()

	favs, err := s.mirror.Favorites(ctx, device)
	if err != nil {
		return nil, err
	}
	i := indexOfFavorite(favs, productID)
	if i < 0 {
		return favs, nil
	}
	favs = append(favs[:i], favs[i+1:]...)
	return favs, s.mirror.SaveFavorites(ctx, device, favs)
}

// Toggle adds fav when absent and removes it otherwise. The bool reports
// whether the product is a favorite afterwards.
func (s *FavoriteService) Toggle(ctx context.Context, device string, fav models.FavoriteProduct) ([]models.FavoriteProduct, bool, error) {
	if fav.ProductID == "" {
		return nil, false, models.NewValidation("product is required", models.FieldError{Path: "product_id", Message: "required"})
	}

	unlock := s.locks.Lock(device)
	defer unlock()

	favs, err := s.mirror.Favorites(ctx, device)
	if err != nil {
		return nil, false, err
	}

	added := false
	if i := indexOfFavorite(favs, fav.ProductID); i >= 0 {
		favs = append(favs[:i], favs[i+1:]...)
	} else {
		if fav.AddedAt.IsZero() {
			fav.AddedAt = s.now().UTC()
		}
		favs = append(favs, fav)
		added = true
	}
	if err := s.mirror.SaveFavorites(ctx, device, favs); err != nil {
		return nil, false, err
	}
	return favs, added, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, device string, productID models.DocID) (bool, error) {
	favs, err := s.mirror.Favorites(ctx, device)
	if err != nil {
		return false, err
	}
	return indexOfFavorite(favs, productID) >= 0, nil
}

func (s *FavoriteService) Clear(ctx context.Context, device string) error {
	unlock := s.locks.Lock(device)
	defer unlock()
	return s.mirror.ClearFavorites(ctx, device)
}

func indexOfFavorite(favs []models.FavoriteProduct, productID models.DocID) int {
	for i, f := range favs {
		if f.ProductID == productID {
			return i
		}
	}
	return -1
}
