package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type OrderController struct {
	Auth   *services.AuthService
	Orders *services.OrderService
}

// CreateOrder godoc
// @Summary Place order
// @Description Turn the device's cart into a pending order and clear the cart
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.PlaceOrderRequest true "Checkout"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	order, err := ctrl.Orders.PlaceOrder(c.Request.Context(), middleware.DeviceID(c), session, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Order created successfully", order)
}

// GetOrders godoc
// @Summary Order history
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	result, err := ctrl.Orders.GetOrders(c.Request.Context(), session, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrderByID godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Param id path string true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	order, err := ctrl.Orders.GetOrderByID(c.Request.Context(), session, models.DocID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Order retrieved successfully", order)
}
