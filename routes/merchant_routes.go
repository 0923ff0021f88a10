package routes

import (
	"github.com/kerjalink/kerjapay/controllers"
	"github.com/kerjalink/kerjapay/middleware"
	"github.com/gin-gonic/gin"
)

// initMerchantRoutes initializes all merchant-facing wallet routes
func initMerchantRoutes(router *gin.RouterGroup) {
	merchant := router.Group("/merchant")
	merchant.Use(middleware.MerchantAuthMiddleware())
	{
		wallet := merchant.Group("/wallet")
		{
			wallet.GET("/balance", controllers.GetMerchantWalletBalance)
			wallet.GET("/transactions", controllers.GetMerchantWalletTransactions)
			wallet.POST("/topup", controllers.InitiateTopUp)
			wallet.GET("/topup/:id", controllers.GetTopUpStatus)
		}
	}
}
