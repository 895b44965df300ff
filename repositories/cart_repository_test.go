package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/libs"
	"storefront/libs/payloadtest"
	"storefront/models"
)

const testStore = models.DocID("7")

func newTestCMS(t *testing.T) (*payloadtest.Server, *libs.PayloadClient) {
	t.Helper()
	cms := payloadtest.NewServer()
	t.Cleanup(cms.Close)

	client, err := libs.NewPayloadClient(libs.PayloadConfig{BaseURL: cms.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	return cms, client
}

func TestCartRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	cms, client := newTestCMS(t)
	repo := NewCartRepository(client)

	cart, err := repo.Create(ctx, testStore, "")
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, testStore, cart.Store)
	assert.Empty(t, cart.Items)

	items := []models.CartLine{{Product: "42", Quantity: 2, Price: decimal.RequireFromString("9.99")}}
	updated, err := repo.Update(ctx, cart.ID, models.CartPatch{Items: &items})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(updated.Items[0].Price))

	fetched, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Items, fetched.Items)

	cms.DeleteCart(cart.ID)
	_, err = repo.FindByID(ctx, cart.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestCartRepositoryPopulatesDiscounts(t *testing.T) {
	ctx := context.Background()
	cms, client := newTestCMS(t)
	repo := NewCartRepository(client)
	d := cms.AddDiscount("TENOFF", models.DiscountPercentage, 10, true, false, testStore)

	cart, err := repo.Create(ctx, testStore, "")
	require.NoError(t, err)

	ids := []models.DocID{d.ID}
	updated, err := repo.Update(ctx, cart.ID, models.CartPatch{AppliedDiscounts: &ids})
	require.NoError(t, err)
	require.Len(t, updated.AppliedDiscounts, 1)
	assert.Equal(t, "TENOFF", updated.AppliedDiscounts[0].Code)
	assert.Equal(t, models.DiscountPercentage, updated.AppliedDiscounts[0].Type)
}

func TestDiscountRepositoryFindRedeemable(t *testing.T) {
	ctx := context.Background()
	cms, client := newTestCMS(t)
	repo := NewDiscountRepository(client)

	good := cms.AddDiscount("SAVE5", models.DiscountFixed, 5, true, false, testStore)
	cms.AddDiscount("OLD", models.DiscountFixed, 5, false, false, testStore)
	cms.AddDiscount("AUTO", models.DiscountFixed, 5, true, true, testStore)
	cms.AddDiscount("OTHER", models.DiscountFixed, 5, true, false, "8")

	found, err := repo.FindRedeemable(ctx, testStore, "SAVE5")
	require.NoError(t, err)
	assert.Equal(t, good.ID, found.ID)

	for _, code := range []string{"OLD", "AUTO", "OTHER", "NOPE"} {
		_, err := repo.FindRedeemable(ctx, testStore, code)
		assert.True(t, models.IsNotFound(err), code)
	}
}

func TestUserAndCustomerRepositories(t *testing.T) {
	ctx := context.Background()
	cms, client := newTestCMS(t)
	users := NewUserRepository(client)
	customers := NewCustomerRepository(client)
	user, customer, _ := cms.AddUser("ana@example.com", "secret1", "Ana")

	_, err := users.Login(ctx, "ana@example.com", "wrong")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	session, err := users.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	authed := libs.WithAuthToken(ctx, session.Token)
	me, err := users.Me(authed)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)

	_, err = users.Me(ctx)
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	found, err := customers.FindByUser(authed, user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, found.ID)

	require.NoError(t, customers.AppendOrder(authed, customer.ID, "900"))
	require.NoError(t, customers.AppendOrder(authed, customer.ID, "901"))
	got, err := customers.GetByID(authed, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.DocID{"900", "901"}, got.Orders)
}
