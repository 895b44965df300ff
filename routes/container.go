package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/controllers"
	"storefront/libs"
	"storefront/middleware"
	"storefront/models"
	"storefront/repositories"
	"storefront/services"
)

// App is the wired gateway: router plus the resources main has to release.
type App struct {
	Router *gin.Engine
	Store  repositories.LocalStore

	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// NewApp connects the local store backend and builds every service on top
// of the Payload client.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{}

	store, err := openLocalStore(ctx, cfg, log, app)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store

	client, err := libs.NewPayloadClient(libs.PayloadConfig{
		BaseURL: cfg.PayloadAPIURL,
		Timeout: cfg.HTTPTimeout,
	}, log.Named("payload"))
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Router = NewRouter(cfg, log, Build(Deps{
		Client:     client,
		Store:      store,
		StoreID:    models.DocID(cfg.StoreID),
		CacheTTL:   cfg.CatalogCacheTTL,
		StorageURL: cfg.StorageURL,
		Log:        log,
	}))
	return app, nil
}

func openLocalStore(ctx context.Context, cfg *config.Config, log *zap.Logger, app *App) (repositories.LocalStore, error) {
	switch cfg.LocalStore {
	case config.LocalStoreRedis:
		client, err := config.ConnectRedis(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		return repositories.NewRedisStore(client), nil
	case config.LocalStorePostgres:
		pool, err := config.ConnectDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		return repositories.NewPostgresStore(pool), nil
	case config.LocalStoreMemory:
		log.Warn("Using in-memory local store; device state is lost on restart")
		return repositories.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown LOCAL_STORE %q", cfg.LocalStore)
	}
}

type Deps struct {
	Client     *libs.PayloadClient
	Store      repositories.LocalStore
	StoreID    models.DocID
	CacheTTL   time.Duration
	StorageURL string
	Log        *zap.Logger
}

// Build wires repositories, services and controllers.
func Build(d Deps) Controllers {
	carts := repositories.NewCartRepository(d.Client)
	discounts := repositories.NewDiscountRepository(d.Client)
	products := repositories.NewProductRepository(d.Client, d.StoreID)
	customers := repositories.NewCustomerRepository(d.Client)
	orders := repositories.NewOrderRepository(d.Client)
	users := repositories.NewUserRepository(d.Client)

	mirror := services.NewDeviceMirror(d.Store)

	cartSvc := services.NewCartService(services.CartDeps{
		Carts:     carts,
		Discounts: discounts,
		Products:  products,
		Mirror:    mirror,
		StoreID:   d.StoreID,
		Log:       d.Log,
	})
	authSvc := services.NewAuthService(users, customers, cartSvc, mirror, d.Log)
	userSvc := services.NewUserService(users, customers, mirror, d.Log)
	productSvc := services.NewProductService(products, d.Store, d.CacheTTL, d.StorageURL, d.Log)
	orderSvc := services.NewOrderService(orders, customers, cartSvc, d.StoreID, d.Log)

	return Controllers{
		Auth:     &controllers.AuthController{Auth: authSvc},
		Profile:  &controllers.ProfileController{Auth: authSvc, Users: userSvc},
		Cart:     &controllers.CartController{Carts: cartSvc},
		Promo:    &controllers.PromoController{Carts: cartSvc},
		Favorite: &controllers.FavoriteController{Favorites: services.NewFavoriteService(mirror)},
		Address:  &controllers.AddressController{Addresses: services.NewAddressService(customers, mirror, d.Log)},
		Product:  &controllers.ProductController{Products: productSvc},
		Category: &controllers.CategoryController{Products: productSvc},
		Order:    &controllers.OrderController{Auth: authSvc, Orders: orderSvc},
		Settings: &controllers.SettingsController{Settings: services.NewSettingsService(mirror)},
	}
}

func NewRouter(cfg *config.Config, log *zap.Logger, ctrl Controllers) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.AppEnv == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	SetupRoutes(router, ctrl, cfg.JWTSecret)
	return router
}
