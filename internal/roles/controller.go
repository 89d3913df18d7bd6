package roles

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

func (ctrl *Controller) ListRoles(c *gin.Context) {
	list, err := ctrl.service.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list roles", nil)
		return
	}
	response.Success(c, http.StatusOK, "Roles retrieved successfully", list)
}

func (ctrl *Controller) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid role ID", err.Error())
		return
	}

	role, err := ctrl.service.GetRole(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get role")
		return
	}
	response.Success(c, http.StatusOK, "Role retrieved successfully", role)
}

func (ctrl *Controller) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	role, err := ctrl.service.CreateRole(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create role")
		return
	}
	response.Success(c, http.StatusCreated, "Role created successfully", role)
}

func (ctrl *Controller) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid role ID", err.Error())
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	role, err := ctrl.service.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update role")
		return
	}
	response.Success(c, http.StatusOK, "Role updated successfully", role)
}

func (ctrl *Controller) DeleteRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid role ID", err.Error())
		return
	}

	if err := ctrl.service.DeleteRole(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete role")
		return
	}
	response.Success(c, http.StatusOK, "Role deleted successfully", nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRoleNotFound):
		response.Error(c, http.StatusNotFound, "Role not found", nil)
	case errors.Is(err, ErrRoleExists):
		response.Error(c, http.StatusConflict, "Role with this name already exists", nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}
