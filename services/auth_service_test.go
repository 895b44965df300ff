package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

func TestRegisterCreatesUserAndCustomer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	session, err := h.auth.Register(ctx, testDevice, models.RegisterRequest{
		Email:    " New@Example.com ",
		Password: "secret1",
		Name:     "New",
		Phone:    "555",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "new@example.com", session.User.Email)
	require.NotEmpty(t, session.User.Customer)

	h.cms.Lock()
	customer := h.cms.Customers[session.User.Customer]
	user := h.cms.Users[session.User.ID]
	h.cms.Unlock()
	require.NotNil(t, customer)
	assert.Equal(t, session.User.ID, customer.User)
	assert.Equal(t, session.User.Customer, user.User.Customer)

	stored, err := h.mirror.Session(ctx, testDevice)
	require.NoError(t, err)
	assert.Equal(t, session.Token, stored.Token)
}

func TestRegisterDuplicateEmailIsValidationError(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.cms.AddUser("taken@example.com", "secret1", "Taken")

	_, err := h.auth.Register(ctx, testDevice, models.RegisterRequest{Email: "taken@example.com", Password: "secret1", Name: "X"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.KindValidation, appErr.Kind)
	assert.Equal(t, "email", appErr.Errors[0].Path)
}

func TestLoginAttachesAnonymousCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	cart, err := h.carts.AddItem(ctx, testDevice, AddItemInput{ProductID: "1", Price: price("4")})
	require.NoError(t, err)
	assert.Empty(t, cart.Customer)

	session := h.login(t)

	stored, _ := h.cms.Cart(cart.ID)
	assert.Equal(t, session.User.Customer, stored.Customer)
	assert.Len(t, stored.Items, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.cms.AddUser("ana@example.com", "secret1", "Ana")

	_, err := h.auth.Login(context.Background(), testDevice, models.LoginRequest{Email: "ana@example.com", Password: "nope"})
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	session, err := h.mirror.Session(context.Background(), testDevice)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestLogoutKeepsCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t)

	id, err := h.carts.GetOrCreateCart(ctx, testDevice)
	require.NoError(t, err)

	require.NoError(t, h.auth.Logout(ctx, testDevice))

	session, err := h.mirror.Session(ctx, testDevice)
	require.NoError(t, err)
	assert.Nil(t, session)

	again, err := h.carts.GetOrCreateCart(ctx, testDevice)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestSessionResolution(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.auth.Session(ctx, testDevice, "")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	user, customer, token := h.cms.AddUser("bo@example.com", "secret1", "Bo")

	session, err := h.auth.Session(ctx, testDevice, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.Equal(t, customer.ID, session.User.Customer)

	gets := h.cms.CountCalls("GET", "/api/users/me")
	_, err = h.auth.Session(ctx, testDevice, token)
	require.NoError(t, err)
	assert.Equal(t, gets, h.cms.CountCalls("GET", "/api/users/me"))

	_, err = h.auth.Session(ctx, "device-other", "bogus")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))
}

func TestExpiredSessionIsDropped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.login(t)
	_, err := h.addresses.Add(ctx, testDevice, address("customer", true))
	require.NoError(t, err)
	h.auth.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	_, err = h.auth.Session(ctx, testDevice, "")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	session, err := h.mirror.Session(ctx, testDevice)
	require.NoError(t, err)
	assert.Nil(t, session)

	cached, err := h.mirror.Addresses(ctx, testDevice)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestProfileUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	session := h.login(t)

	profile, err := h.users.UpdateMe(ctx, testDevice, session, models.UpdateMeRequest{Name: "Ana B", Phone: "555-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", profile.User.Name)
	require.NotNil(t, profile.Customer)
	assert.Equal(t, "555-1", profile.Customer.Phone)

	_, err = h.favorites.Add(ctx, testDevice, models.FavoriteProduct{ProductID: "1"})
	require.NoError(t, err)

	require.NoError(t, h.users.DeleteMe(ctx, testDevice, session))

	favs, err := h.favorites.List(ctx, testDevice)
	require.NoError(t, err)
	assert.Empty(t, favs)

	h.cms.Lock()
	_, exists := h.cms.Users[session.User.ID]
	h.cms.Unlock()
	assert.False(t, exists)
}
