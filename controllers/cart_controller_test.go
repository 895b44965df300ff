package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/libs"
	"storefront/libs/payloadtest"
	"storefront/models"
	"storefront/repositories"
	"storefront/routes"
)

const device = "device-ctrl-01"

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  []models.FieldError `json:"errors"`
	Data    json.RawMessage     `json:"data"`
}

func newRouter(t *testing.T) (*gin.Engine, *payloadtest.Server) {
	t.Helper()
	cms := payloadtest.NewServer()
	t.Cleanup(cms.Close)

	client, err := libs.NewPayloadClient(libs.PayloadConfig{BaseURL: cms.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)

	cfg := &config.Config{AppEnv: "test", StoreID: "7", JWTSecret: payloadtest.Secret}
	ctrl := routes.Build(routes.Deps{
		Client:  client,
		Store:   repositories.NewMemoryStore(),
		StoreID: "7",
		Log:     zap.NewNop(),
	})
	return routes.NewRouter(cfg, zap.NewNop(), ctrl), cms
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", device)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decodeCart(t *testing.T, env envelope) models.Cart {
	t.Helper()
	var cart models.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	return cart
}

func TestCartEndpoints(t *testing.T) {
	r, _ := newRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/cart/items", gin.H{"product_id": "42", "price": 7.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, device, w.Header().Get("X-Device-ID"))

	_, env = do(t, r, http.MethodPost, "/api/cart/items", gin.H{"product_id": "42", "price": 7.5})
	cart := decodeCart(t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "15", cart.Subtotal.String())

	_, env = do(t, r, http.MethodPatch, "/api/cart/items", gin.H{"product_id": "42", "quantity": 4})
	assert.Equal(t, 4, decodeCart(t, env).Items[0].Quantity)

	_, env = do(t, r, http.MethodDelete, "/api/cart/items", gin.H{"product_id": "42"})
	assert.Equal(t, 3, decodeCart(t, env).Items[0].Quantity)

	w, env = do(t, r, http.MethodGet, "/api/cart/cached", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cached []models.CartLine
	require.NoError(t, json.Unmarshal(env.Data, &cached))
	assert.Equal(t, 3, cached[0].Quantity)

	w, _ = do(t, r, http.MethodDelete, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddItemBindError(t *testing.T) {
	r, _ := newRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/cart/items", gin.H{"variant": "L"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestDiscountEndpoints(t *testing.T) {
	r, cms := newRouter(t)
	cms.AddDiscount("TENOFF", models.DiscountPercentage, 10, true, false, "7")

	w, env := do(t, r, http.MethodPost, "/api/cart/discounts", gin.H{"code": "BOGUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_CODE", env.Error)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "code", env.Errors[0].Path)

	do(t, r, http.MethodPost, "/api/cart/items", gin.H{"product_id": "1", "price": 100})
	w, env = do(t, r, http.MethodPost, "/api/cart/discounts", gin.H{"code": "TENOFF"})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeCart(t, env)
	assert.Len(t, cart.AppliedDiscounts, 1)
	assert.Equal(t, "90", cart.Total.String())

	_, env = do(t, r, http.MethodDelete, "/api/cart/discounts/TENOFF", nil)
	assert.Empty(t, decodeCart(t, env).AppliedDiscounts)
}

func TestCMSOutageIsBadGateway(t *testing.T) {
	r, cms := newRouter(t)
	cms.Lock()
	cms.Fail = http.StatusInternalServerError
	cms.Unlock()

	w, env := do(t, r, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "NETWORK_ERROR", env.Error)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, _ := newRouter(t)

	for _, path := range []string{"/api/me", "/api/orders"} {
		w, _ := do(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestFavoritesAndAddresses(t *testing.T) {
	r, _ := newRouter(t)
	fav := gin.H{"product_id": "42", "title": "Tee", "price": 10}

	_, env := do(t, r, http.MethodPost, "/api/favorites/toggle", fav)
	assert.Equal(t, "Favorite added", env.Message)
	_, env = do(t, r, http.MethodPost, "/api/favorites", fav)
	var favs []models.FavoriteProduct
	require.NoError(t, json.Unmarshal(env.Data, &favs))
	assert.Len(t, favs, 1)

	addr := gin.H{
		"name": "Home", "line1": "1 Main St", "city": "Springfield", "state": "IL",
		"postal_code": "62701", "country": "US", "phone": "555",
	}
	for i := 0; i < 3; i++ {
		w, _ := do(t, r, http.MethodPost, "/api/addresses", addr)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, env := do(t, r, http.MethodPost, "/api/addresses", addr)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)

	w, _ = do(t, r, http.MethodDelete, "/api/addresses/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func TestSettingsEndpoints(t *testing.T) {
	r, _ := newRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(env.Data))

	w, _ = do(t, r, http.MethodPut, "/api/settings", gin.H{"theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, env = do(t, r, http.MethodGet, "/api/settings", nil)
	assert.JSONEq(t, `{"theme":"dark"}`, string(env.Data))

	w, _ = do(t, r, http.MethodPut, "/api/settings", []string{"dark"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
