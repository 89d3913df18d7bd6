package products

import "github.com/gin-gonic/gin"

func SetupProductRoutes(router gin.IRouter, controller *Controller) {
	adminProducts := router.Group("/admin/products")
	{
		adminProducts.GET("", controller.ListProducts)
		adminProducts.POST("", controller.CreateProduct)
		adminProducts.GET("/:id", controller.GetProduct)
		adminProducts.PUT("/:id", controller.UpdateProduct)
		adminProducts.DELETE("/:id", controller.DeleteProduct)
	}
}
