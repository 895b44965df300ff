package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/services"
)

type CategoryController struct {
	Products *services.ProductService
}

// GetAllCategories godoc
// @Summary Get all categories
// @Description Get list of all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response
// @Router /categories [get]
func (ctrl *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.Products.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Categories retrieved", categories)
}
