package services

import (
	"bytes"
	"context"
	"encoding/json"

	"storefront/models"
)

// maxSettingsSize caps the opaque app_settings blob a device may store.
const maxSettingsSize = 64 << 10

// SettingsService stores the app's own preferences for a device. The
// gateway never looks inside them.
type SettingsService struct {
	mirror *DeviceMirror
}

func NewSettingsService(mirror *DeviceMirror) *SettingsService {
	return &SettingsService{mirror: mirror}
}

// Get returns the stored settings, or an empty object.
func (s *SettingsService) Get(ctx context.Context, device string) (json.RawMessage, error) {
	return s.mirror.AppSettings(ctx, device)
}

// Replace stores raw as the device's settings. It must be a JSON object.
func (s *SettingsService) Replace(ctx context.Context, device string, raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > maxSettingsSize {
		return nil, models.NewValidation("settings are too large", models.FieldError{Message: "at most 64KB"})
	}
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		return nil, models.NewValidation("settings must be a JSON object", models.FieldError{Message: "expected a JSON object"})
	}

	settings := json.RawMessage(raw)
	if err := s.mirror.SaveAppSettings(ctx, device, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
