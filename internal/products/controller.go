package products

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopadmin/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// ListProducts godoc
// @Summary List products
// @Tags admin-products
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(5)
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /admin/products [get]
func (ctrl *Controller) ListProducts(c *gin.Context) {
	var query ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	page, err := ctrl.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, "Products retrieved successfully", page)
}

func (ctrl *Controller) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}

	product, err := ctrl.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get product")
		return
	}
	response.Success(c, http.StatusOK, "Product retrieved successfully", product)
}

func (ctrl *Controller) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	product, err := ctrl.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create product")
		return
	}
	response.Success(c, http.StatusCreated, "Product created successfully", product)
}

func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	product, err := ctrl.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update product")
		return
	}
	response.Success(c, http.StatusOK, "Product updated successfully", product)
}

func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}

	if err := ctrl.service.DeleteProduct(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete product")
		return
	}
	response.Success(c, http.StatusOK, "Product deleted successfully", nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, ErrProductInUse):
		response.Error(c, http.StatusConflict, "Product is referenced by existing orders", nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}
