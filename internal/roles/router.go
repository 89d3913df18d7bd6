package roles

import "github.com/gin-gonic/gin"

// SetupRoleRoutes registers /admin/roles. Access is enforced by the global policy.
func SetupRoleRoutes(router gin.IRouter, controller *Controller) {
	adminRoles := router.Group("/admin/roles")
	{
		adminRoles.GET("", controller.ListRoles)
		adminRoles.POST("", controller.CreateRole)
		adminRoles.GET("/:id", controller.GetRole)
		adminRoles.PUT("/:id", controller.UpdateRole)
		adminRoles.DELETE("/:id", controller.DeleteRole)
	}
}
