package services

import (
	"fmt"

	"github.com/google/uuid"

	"storefront/models"
)

// MaxLocalAddresses caps the address book of a device without an account.
const MaxLocalAddresses = 3

// addAddress appends addr, giving it an id when it has none. The first
// address, or one flagged default, becomes the single default. limit <= 0
// means no cap.
func addAddress(list []models.Address, addr models.Address, limit int) ([]models.Address, error) {
	if limit > 0 && len(list) >= limit {
		return nil, models.NewValidation(
			fmt.Sprintf("at most %d addresses can be saved", limit),
			models.FieldError{Path: "addresses", Message: "limit reached"},
		)
	}
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	out := make([]models.Address, 0, len(list)+1)
	out = append(out, list...)
	if addr.IsDefault || len(out) == 0 {
		for i := range out {
			out[i].IsDefault = false
		}
		addr.IsDefault = true
	}
	return append(out, addr), nil
}

// removeAddress drops the address with id. Removing the default promotes
// the first remaining address.
func removeAddress(list []models.Address, id string) ([]models.Address, error) {
	i := indexOfAddress(list, id)
	if i < 0 {
		return nil, models.NewNotFound("address not found")
	}

	wasDefault := list[i].IsDefault
	out := make([]models.Address, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	if wasDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out, nil
}

func setDefaultAddress(list []models.Address, id string) ([]models.Address, error) {
	if indexOfAddress(list, id) < 0 {
		return nil, models.NewNotFound("address not found")
	}
	out := make([]models.Address, len(list))
	for i, a := range list {
		a.IsDefault = a.ID == id
		out[i] = a
	}
	return out, nil
}

// normalizeDefault leaves exactly one default in a non-empty list, keeping
// the first one flagged.
func normalizeDefault(list []models.Address) []models.Address {
	if len(list) == 0 {
		return list
	}
	out := make([]models.Address, len(list))
	copy(out, list)

	found := false
	for i := range out {
		if out[i].IsDefault && !found {
			found = true
			continue
		}
		out[i].IsDefault = false
	}
	if !found {
		out[0].IsDefault = true
	}
	return out
}

func indexOfAddress(list []models.Address, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
