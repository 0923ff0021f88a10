package routes

import (
	"github.com/kerjalink/kerjapay/controllers"
	"github.com/kerjalink/kerjapay/middleware"
	"github.com/gin-gonic/gin"
)

// initWorkerRoutes initializes all worker-facing wallet routes
func initWorkerRoutes(router *gin.RouterGroup) {
	worker := router.Group("/worker")
	worker.Use(middleware.WorkerAuthMiddleware())
	{
		wallet := worker.Group("/wallet")
		{
			wallet.GET("/balance", controllers.GetWorkerWalletBalance)
			wallet.GET("/transactions", controllers.GetWorkerWalletTransactions)
		}

		payouts := worker.Group("/payouts")
		{
			payouts.POST("", controllers.RequestPayout)
			payouts.GET("", controllers.ListPayouts)
			payouts.POST("/:id/cancel", controllers.CancelPayout)
		}
	}

	// Public read-side projection of the trust score
	router.GET("/workers/:id/reliability", controllers.GetWorkerReliability)
}
