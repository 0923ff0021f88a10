package routes

import (
	"github.com/kerjalink/kerjapay/controllers"
	"github.com/kerjalink/kerjapay/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes the operator routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/payouts", controllers.AdminListPayouts)
		admin.GET("/wallet/transactions/export", controllers.AdminExportWalletTransactions)
	}
}

// initInternalRoutes initializes service-to-service routes
func initInternalRoutes(router *gin.RouterGroup) {
	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	{
		internal.POST("/bookings/:id/complete", controllers.CompleteBooking)
	}
}
