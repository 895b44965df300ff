package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type ProfileController struct {
	Auth  *services.AuthService
	Users *services.UserService
}

// GetProfile godoc
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /me [get]
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	profile, err := ctrl.Users.Me(c.Request.Context(), middleware.DeviceID(c), session)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.UpdateMeRequest true "Profile"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /me [patch]
func (ctrl *ProfileController) UpdateProfile(c *gin.Context) {
	var req models.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	profile, err := ctrl.Users.UpdateMe(c.Request.Context(), middleware.DeviceID(c), session, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile updated successfully", profile)
}

// DeleteAccount godoc
// @Summary Delete account
// @Description Delete the CMS user and wipe everything this device holds
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /me [delete]
func (ctrl *ProfileController) DeleteAccount(c *gin.Context) {
	session, ok := sessionOf(c, ctrl.Auth)
	if !ok {
		return
	}

	if err := ctrl.Users.DeleteMe(c.Request.Context(), middleware.DeviceID(c), session); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Account deleted", nil)
}
