package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type AuthController struct {
	Auth *services.AuthService
}

// Register godoc
// @Summary Register new customer
// @Description Create a CMS user and customer, then sign this device in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctrl.Auth.Register(c.Request.Context(), middleware.DeviceID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Registration successful", session)
}

// Login godoc
// @Summary User login
// @Description Login with email and password; the device's cart is attached to the customer
// @Tags Authentication
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := ctrl.Auth.Login(c.Request.Context(), middleware.DeviceID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Login successful", session)
}

// Logout godoc
// @Summary Logout
// @Description Forget the session on this device; the cart is kept
// @Tags Authentication
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.Auth.Logout(c.Request.Context(), middleware.DeviceID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Logout successful", nil)
}
