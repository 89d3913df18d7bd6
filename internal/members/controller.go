package members

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shopadmin/internal/roles"
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

// ListMembers godoc
// @Summary List members
// @Tags admin-members
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(5)
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /admin/members [get]
func (ctrl *Controller) ListMembers(c *gin.Context) {
	var query ListMembersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	page, err := ctrl.service.ListMembers(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list members", nil)
		return
	}
	response.Success(c, http.StatusOK, "Members retrieved successfully", page)
}

func (ctrl *Controller) GetMember(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid member ID")
	if !ok {
		return
	}

	member, err := ctrl.service.GetMember(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get member")
		return
	}
	response.Success(c, http.StatusOK, "Member retrieved successfully", member)
}

func (ctrl *Controller) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	member, err := ctrl.service.CreateMember(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create member")
		return
	}
	response.Success(c, http.StatusCreated, "Member created successfully", member)
}

func (ctrl *Controller) UpdateMember(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid member ID")
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	member, err := ctrl.service.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update member")
		return
	}
	response.Success(c, http.StatusOK, "Member updated successfully", member)
}

func (ctrl *Controller) DeleteMember(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid member ID")
	if !ok {
		return
	}

	if err := ctrl.service.DeleteMember(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete member")
		return
	}
	response.Success(c, http.StatusOK, "Member deleted successfully", nil)
}

func (ctrl *Controller) GrantRole(c *gin.Context) {
	memberID, ok := parseID(c, "id", "Invalid member ID")
	if !ok {
		return
	}
	roleID, ok := parseID(c, "roleId", "Invalid role ID")
	if !ok {
		return
	}

	actor, _ := middleware.Subject(c)
	member, err := ctrl.service.GrantRole(c.Request.Context(), memberID, roleID, actor)
	if err != nil {
		ctrl.respondError(c, err, "Failed to grant role")
		return
	}
	response.Success(c, http.StatusOK, "Role granted successfully", member)
}

func (ctrl *Controller) RevokeRole(c *gin.Context) {
	memberID, ok := parseID(c, "id", "Invalid member ID")
	if !ok {
		return
	}
	roleID, ok := parseID(c, "roleId", "Invalid role ID")
	if !ok {
		return
	}

	actor, _ := middleware.Subject(c)
	member, err := ctrl.service.RevokeRole(c.Request.Context(), memberID, roleID, actor)
	if err != nil {
		ctrl.respondError(c, err, "Failed to revoke role")
		return
	}
	response.Success(c, http.StatusOK, "Role revoked successfully", member)
}

// GetCurrentMember returns the caller's own profile
func (ctrl *Controller) GetCurrentMember(c *gin.Context) {
	subject, ok := middleware.Subject(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	member, err := ctrl.service.GetMemberBySubject(c.Request.Context(), subject)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get member")
		return
	}
	response.Success(c, http.StatusOK, "Member retrieved successfully", member)
}

func (ctrl *Controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "Member not found", nil)
	case errors.Is(err, roles.ErrRoleNotFound):
		response.Error(c, http.StatusNotFound, "Role not found", nil)
	case errors.Is(err, ErrRoleNotGranted):
		response.Error(c, http.StatusNotFound, "Role is not granted to member", nil)
	case errors.Is(err, ErrMemberExists):
		response.Error(c, http.StatusConflict, "Member with this email or username already exists", nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.Error(c, http.StatusBadRequest, message, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
