package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/libs"
	"storefront/libs/payloadtest"
	"storefront/models"
	"storefront/repositories"
)

const (
	testStore  = models.DocID("7")
	testDevice = "device-0001"

	testStorageURL = "https://cdn.example.com/media/"
)

type harness struct {
	cms       *payloadtest.Server
	store     *repositories.MemoryStore
	mirror    *DeviceMirror
	carts     *CartService
	auth      *AuthService
	users     *UserService
	addresses *AddressService
	favorites *FavoriteService
	orders    *OrderService
	products  *ProductService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cms := payloadtest.NewServer()
	t.Cleanup(cms.Close)

	client, err := libs.NewPayloadClient(libs.PayloadConfig{BaseURL: cms.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	store := repositories.NewMemoryStore()
	mirror := NewDeviceMirror(store)
	customers := repositories.NewCustomerRepository(client)
	userRepo := repositories.NewUserRepository(client)
	productRepo := repositories.NewProductRepository(client, testStore)

	carts := NewCartService(CartDeps{
		Carts:     repositories.NewCartRepository(client),
		Discounts: repositories.NewDiscountRepository(client),
		Products:  productRepo,
		Mirror:    mirror,
		StoreID:   testStore,
		Log:       log,
	})

	return &harness{
		cms:       cms,
		store:     store,
		mirror:    mirror,
		carts:     carts,
		auth:      NewAuthService(userRepo, customers, carts, mirror, log),
		users:     NewUserService(userRepo, customers, mirror, log),
		addresses: NewAddressService(customers, mirror, log),
		favorites: NewFavoriteService(mirror),
		orders:    NewOrderService(repositories.NewOrderRepository(client), customers, carts, testStore, log),
		products:  NewProductService(productRepo, store, time.Minute, testStorageURL, log),
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// login signs testDevice in as a fresh CMS user.
func (h *harness) login(t *testing.T) *models.Session {
	t.Helper()
	h.cms.AddUser("ana@example.com", "secret1", "Ana")
	session, err := h.auth.Login(context.Background(), testDevice, models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	return session
}
