package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/utils"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextToken     = "auth_token"
)

// AuthMiddleware requires a CMS token as "Bearer <token>" or "JWT <token>".
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || (tokenParts[0] != "Bearer" && tokenParts[0] != "JWT") {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenParts[1], secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.ID.String())
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextToken, tokenParts[1])
		c.Next()
	}
}

func AuthToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
