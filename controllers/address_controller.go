package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type AddressController struct {
	Addresses *services.AddressService
}

// GetAddresses godoc
// @Summary List addresses
// @Description Signed-in devices get the customer's addresses from the CMS, guests their local list
// @Tags Addresses
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /addresses [get]
func (ctrl *AddressController) GetAddresses(c *gin.Context) {
	addrs, err := ctrl.Addresses.List(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Addresses retrieved successfully", addrs)
}

// AddAddress godoc
// @Summary Add address
// @Description Guests may keep at most 3 addresses
// @Tags Addresses
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.AddressRequest true "Address"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /addresses [post]
func (ctrl *AddressController) AddAddress(c *gin.Context) {
	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	addrs, err := ctrl.Addresses.Add(c.Request.Context(), middleware.DeviceID(c), req.ToAddress())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Address added", addrs)
}

// RemoveAddress godoc
// @Summary Remove address
// @Description Removing the default address promotes the first remaining one
// @Tags Addresses
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param id path string true "Address ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id} [delete]
func (ctrl *AddressController) RemoveAddress(c *gin.Context) {
	addrs, err := ctrl.Addresses.Remove(c.Request.Context(), middleware.DeviceID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Address removed", addrs)
}

// SetDefaultAddress godoc
// @Summary Set default address
// @Tags Addresses
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param id path string true "Address ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /addresses/{id}/default [patch]
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	addrs, err := ctrl.Addresses.SetDefault(c.Request.Context(), middleware.DeviceID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Default address updated", addrs)
}
