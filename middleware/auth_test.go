package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/utils"
)

const testSecret = "test-secret"

func authRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "token": AuthToken(c)})
	})
	return r
}

func signed(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token, err := utils.GenerateToken(utils.Claims{
		ID:         "12",
		Collection: "users",
		Email:      "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, secret)
	require.NoError(t, err)
	return token
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	valid := signed(t, testSecret, time.Now().Add(time.Hour))
	expired := signed(t, testSecret, time.Now().Add(-time.Hour))
	foreign := signed(t, "other-secret", time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"bearer", "Bearer " + valid, http.StatusOK},
		{"payload scheme", "JWT " + valid, http.StatusOK},
	}

	r := authRouter(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user":"12","token":"`+valid+`"}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareWithoutSecretChecksExpiryOnly(t *testing.T) {
	r := authRouter("")

	assert.Equal(t, http.StatusOK, serve(r, "Bearer "+signed(t, "whatever", time.Now().Add(time.Hour))).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer "+signed(t, "whatever", time.Now().Add(-time.Hour))).Code)
}
