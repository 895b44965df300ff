package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

func statusOf(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidCode:
		return http.StatusUnprocessableEntity
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	case models.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Internal server error",
		})
		return
	}

	if appErr.Kind == models.KindNetwork {
		_ = c.Error(err)
	}
	c.JSON(statusOf(appErr.Kind), models.ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Error:   appErr.Kind.String(),
		Errors:  appErr.Errors,
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request",
		Error:   err.Error(),
	})
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// sessionOf resolves the signed-in session for the request's bearer token.
func sessionOf(c *gin.Context, auth *services.AuthService) (*models.Session, bool) {
	session, err := auth.Session(c.Request.Context(), middleware.DeviceID(c), middleware.AuthToken(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}
