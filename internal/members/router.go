package members

import "github.com/gin-gonic/gin"

// SetupMemberRoutes registers the admin member surface and the member self-service route
func SetupMemberRoutes(router gin.IRouter, controller *Controller) {
	adminMembers := router.Group("/admin/members")
	{
		adminMembers.GET("", controller.ListMembers)
		adminMembers.POST("", controller.CreateMember)
		adminMembers.GET("/:id", controller.GetMember)
		adminMembers.PUT("/:id", controller.UpdateMember)
		adminMembers.DELETE("/:id", controller.DeleteMember)
		adminMembers.POST("/:id/roles/:roleId", controller.GrantRole)
		adminMembers.DELETE("/:id/roles/:roleId", controller.RevokeRole)
	}

	router.GET("/api/member", controller.GetCurrentMember)
}
