package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type FavoriteController struct {
	Favorites *services.FavoriteService
}

func toFavorite(req models.FavoriteRequest) models.FavoriteProduct {
	return models.FavoriteProduct{
		ProductID: models.DocID(req.ProductID),
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
	}
}

// GetFavorites godoc
// @Summary List favorites
// @Tags Favorites
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /favorites [get]
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	favs, err := ctrl.Favorites.List(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Favorites retrieved successfully", favs)
}

// AddFavorite godoc
// @Summary Add favorite
// @Description Add a product to favorites; adding it again changes nothing
// @Tags Favorites
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.FavoriteRequest true "Favorite"
// @Success 200 {object} models.Response
// @Router /favorites [post]
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	favs, err := ctrl.Favorites.Add(c.Request.Context(), middleware.DeviceID(c), toFavorite(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Favorite added", favs)
}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Tags Favorites
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param request body models.FavoriteRequest true "Favorite"
// @Success 200 {object} models.Response
// @Router /favorites/toggle [post]
func (ctrl *FavoriteController) ToggleFavorite(c *gin.Context) {
	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	favs, added, err := ctrl.Favorites.Toggle(c.Request.Context(), middleware.DeviceID(c), toFavorite(req))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Favorite removed"
	if added {
		message = "Favorite added"
	}
	respondOK(c, http.StatusOK, message, gin.H{"favorite": added, "favorites": favs})
}

// RemoveFavorite godoc
// @Summary Remove favorite
// @Tags Favorites
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response
// @Router /favorites/{id} [delete]
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	favs, err := ctrl.Favorites.Remove(c.Request.Context(), middleware.DeviceID(c), models.DocID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Favorite removed", favs)
}

// ClearFavorites godoc
// @Summary Clear favorites
// @Tags Favorites
// @Produce json
// @Param X-Device-ID header string false "Device ID"
// @Success 200 {object} models.Response
// @Router /favorites [delete]
func (ctrl *FavoriteController) ClearFavorites(c *gin.Context) {
	if err := ctrl.Favorites.Clear(c.Request.Context(), middleware.DeviceID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Favorites cleared", nil)
}
