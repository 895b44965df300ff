package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// PromoController applies discount codes to the device's cart.
type PromoController struct {
	Carts *services.CartService
}

// ApplyCode godoc
// @Summary Apply discount code
// @Description Validate a promo code against the store's active manual discounts and add it to the cart
// @Tags Discounts
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.ApplyDiscountRequest true "Discount code"
// @Success 200 {object} models.Response
// @Failure 422 {object} models.ErrorResponse
// @Router /cart/discounts [post]
func (ctrl *PromoController) ApplyCode(c *gin.Context) {
	var req models.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.Carts.ApplyDiscountCode(c.Request.Context(), middleware.DeviceID(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Discount applied", cart)
}

// RemoveCode godoc
// @Summary Remove discount code
// @Tags Discounts
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param code path string true "Discount code"
// @Success 200 {object} models.Response
// @Router /cart/discounts/{code} [delete]
func (ctrl *PromoController) RemoveCode(c *gin.Context) {
	cart, err := ctrl.Carts.RemoveDiscountCode(c.Request.Context(), middleware.DeviceID(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Discount removed", cart)
}

// ClearCodes godoc
// @Summary Remove all discount codes
// @Tags Discounts
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /cart/discounts [delete]
func (ctrl *PromoController) ClearCodes(c *gin.Context) {
	cart, err := ctrl.Carts.ClearDiscounts(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Discounts cleared", cart)
}
