package orders

import "github.com/gin-gonic/gin"

// SetupOrderRoutes registers the admin order surface and the member order history
func SetupOrderRoutes(router gin.IRouter, controller *Controller) {
	adminOrders := router.Group("/admin/orders")
	{
		adminOrders.GET("", controller.ListOrders)
		adminOrders.POST("", controller.CreateOrder)
		adminOrders.GET("/:id", controller.GetOrder)
		adminOrders.PUT("/:id", controller.UpdateOrder)
		adminOrders.DELETE("/:id", controller.DeleteOrder)
	}

	router.GET("/api/orders", controller.ListMyOrders)
}
