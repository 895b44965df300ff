package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/controllers"
	"storefront/middleware"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	Cart     *controllers.CartController
	Promo    *controllers.PromoController
	Favorite *controllers.FavoriteController
	Address  *controllers.AddressController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Order    *controllers.OrderController
	Settings *controllers.SettingsController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, jwtSecret string) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api")
	api.Use(middleware.DeviceMiddleware())

	api.POST("/auth/register", ctrl.Auth.Register)
	api.POST("/auth/login", ctrl.Auth.Login)
	api.POST("/auth/logout", ctrl.Auth.Logout)

	api.GET("/categories", ctrl.Category.GetAllCategories)
	api.GET("/products", ctrl.Product.GetAllProducts)
	api.GET("/products/:id", ctrl.Product.GetProductByID)
	api.GET("/home", ctrl.Product.GetHomeLayout)
	api.GET("/privacy-policy", ctrl.Product.GetPrivacyPolicy)

	cart := api.Group("/cart")
	{
		cart.GET("", ctrl.Cart.GetCart)
		cart.DELETE("", ctrl.Cart.ClearCart)
		cart.GET("/cached", ctrl.Cart.GetCachedItems)
		cart.POST("/items", ctrl.Cart.AddItem)
		cart.DELETE("/items", ctrl.Cart.RemoveItem)
		cart.PATCH("/items", ctrl.Cart.SetQuantity)
		cart.POST("/discounts", ctrl.Promo.ApplyCode)
		cart.DELETE("/discounts", ctrl.Promo.ClearCodes)
		cart.DELETE("/discounts/:code", ctrl.Promo.RemoveCode)
	}

	favorites := api.Group("/favorites")
	{
		favorites.GET("", ctrl.Favorite.GetFavorites)
		favorites.POST("", ctrl.Favorite.AddFavorite)
		favorites.DELETE("", ctrl.Favorite.ClearFavorites)
		favorites.POST("/toggle", ctrl.Favorite.ToggleFavorite)
		favorites.DELETE("/:id", ctrl.Favorite.RemoveFavorite)
	}

	addresses := api.Group("/addresses")
	{
		addresses.GET("", ctrl.Address.GetAddresses)
		addresses.POST("", ctrl.Address.AddAddress)
		addresses.DELETE("/:id", ctrl.Address.RemoveAddress)
		addresses.PATCH("/:id/default", ctrl.Address.SetDefaultAddress)
	}

	api.GET("/settings", ctrl.Settings.GetSettings)
	api.PUT("/settings", ctrl.Settings.ReplaceSettings)

	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(jwtSecret))
	{
		auth.GET("/me", ctrl.Profile.GetProfile)
		auth.PATCH("/me", ctrl.Profile.UpdateProfile)
		auth.DELETE("/me", ctrl.Profile.DeleteAccount)

		auth.POST("/orders", ctrl.Order.CreateOrder)
		auth.GET("/orders", ctrl.Order.GetOrders)
		auth.GET("/orders/:id", ctrl.Order.GetOrderByID)
	}
}
