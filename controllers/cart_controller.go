package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type CartController struct {
	Carts *services.CartService
}

// GetCart godoc
// @Summary Get cart
// @Description Get the device's cart with computed totals, creating it when needed
// @Tags Cart
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Failure 502 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.Carts.GetCart(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cart retrieved successfully", cart)
}

// GetCachedItems godoc
// @Summary Get cached cart lines
// @Description Get the cart lines last mirrored for this device, without a CMS call
// @Tags Cart
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /cart/cached [get]
func (ctrl *CartController) GetCachedItems(c *gin.Context) {
	items, err := ctrl.Carts.CachedItems(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cached cart retrieved", items)
}

// AddItem godoc
// @Summary Add item to cart
// @Description Add one unit of a product variant; an existing line is incremented
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.AddCartItemRequest true "Cart item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.Carts.AddItem(c.Request.Context(), middleware.DeviceID(c), services.AddItemInput{
		ProductID: models.DocID(req.ProductID),
		Variant:   req.Variant,
		Price:     req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item added to cart", cart)
}

// RemoveItem godoc
// @Summary Remove item from cart
// @Description Remove one unit of a product variant; the line is dropped at zero
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.RemoveCartItemRequest true "Cart item"
// @Success 200 {object} models.Response
// @Router /cart/items [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	var req models.RemoveCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.Carts.RemoveItem(c.Request.Context(), middleware.DeviceID(c), models.DocID(req.ProductID), req.Variant)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item removed from cart", cart)
}

// SetQuantity godoc
// @Summary Set item quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.SetCartItemQuantityRequest true "Quantity"
// @Success 200 {object} models.Response
// @Router /cart/items [patch]
func (ctrl *CartController) SetQuantity(c *gin.Context) {
	var req models.SetCartItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.Carts.SetQuantity(c.Request.Context(), middleware.DeviceID(c), models.DocID(req.ProductID), req.Variant, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cart updated", cart)
}

// ClearCart godoc
// @Summary Clear cart
// @Description Empty the cart and forget it on this device
// @Tags Cart
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.Carts.ClearCart(c.Request.Context(), middleware.DeviceID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cart cleared", nil)
}
