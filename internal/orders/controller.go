package orders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopadmin/internal/members"
	"shopadmin/internal/products"
	"shopadmin/internal/shared/middleware"
	"shopadmin/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// ListOrders godoc
// @Summary List orders
// @Tags admin-orders
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Param sort query string false "orderDate|totalAmount|orderNumber|status[,asc|desc]" default(orderDate,desc)
// @Success 200 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /admin/orders [get]
func (ctrl *Controller) ListOrders(c *gin.Context) {
	query, ok := ctrl.bindListQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.service.ListOrders(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, "Orders retrieved successfully", page)
}

// ListMyOrders returns the caller's order history
func (ctrl *Controller) ListMyOrders(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	query, ok := ctrl.bindListQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.service.ListMemberOrders(c.Request.Context(), subject, query)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, "Orders retrieved successfully", page)
}

func (ctrl *Controller) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	order, err := ctrl.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get order")
		return
	}
	response.Success(c, http.StatusOK, "Order retrieved successfully", order)
}

func (ctrl *Controller) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	actor, _ := middleware.Subject(c)
	order, err := ctrl.service.CreateOrder(c.Request.Context(), req, actor)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create order")
		return
	}
	response.Success(c, http.StatusCreated, "Order created successfully", order)
}

func (ctrl *Controller) UpdateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	order, err := ctrl.service.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update order")
		return
	}
	response.Success(c, http.StatusOK, "Order updated successfully", order)
}

func (ctrl *Controller) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	actor, _ := middleware.Subject(c)
	if err := ctrl.service.DeleteOrder(c.Request.Context(), id, actor); err != nil {
		ctrl.respondError(c, err, "Failed to delete order")
		return
	}
	response.Success(c, http.StatusOK, "Order deleted successfully", nil)
}

func (ctrl *Controller) bindListQuery(c *gin.Context) (ListOrdersQuery, bool) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return query, false
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return query, false
	}
	return query, true
}

func (ctrl *Controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "Order not found", nil)
	case errors.Is(err, members.ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "Member not found", nil)
	case errors.Is(err, products.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidSort), errors.Is(err, ErrEmptyItems):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}
