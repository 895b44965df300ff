package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/repositories"
	"storefront/services"
)

type ProductController struct {
	Products *services.ProductService
}

// GetAllProducts godoc
// @Summary Get all products
// @Description Get paginated list of the store's products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param category query string false "Category ID"
// @Param search query string false "Title search"
// @Success 200 {object} models.PaginationResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit > 100 {
		limit = 100
	}

	result, err := ctrl.Products.GetAllProducts(c.Request.Context(), repositories.ProductFilter{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProductByID godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, err := ctrl.Products.GetProductByID(c.Request.Context(), models.DocID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product retrieved successfully", product)
}

// GetHomeLayout godoc
// @Summary Get home layout
// @Description Get the store's home screen sections
// @Tags Content
// @Produce json
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /home [get]
func (ctrl *ProductController) GetHomeLayout(c *gin.Context) {
	layout, err := ctrl.Products.GetHomeLayout(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Home layout retrieved", layout)
}

// GetPrivacyPolicy godoc
// @Summary Get privacy policy
// @Tags Content
// @Produce json
// @Success 200 {object} models.Response
// @Router /privacy-policy [get]
func (ctrl *ProductController) GetPrivacyPolicy(c *gin.Context) {
	policy, err := ctrl.Products.GetPrivacyPolicy(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Privacy policy retrieved", policy)
}
