package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/services"
)

type SettingsController struct {
	Settings *services.SettingsService
}

// GetSettings godoc
// @Summary Get app settings
// @Description Opaque app preferences stored for the device
// @Tags Settings
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /settings [get]
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctrl.Settings.Get(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// ReplaceSettings godoc
// @Summary Replace app settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body object true "Settings object"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /settings [put]
func (ctrl *SettingsController) ReplaceSettings(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := ctrl.Settings.Replace(c.Request.Context(), middleware.DeviceID(c), raw)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Settings saved", settings)
}
