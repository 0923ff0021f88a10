package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	api := router.Group("/v1")
	{
		initWorkerRoutes(api)
		initMerchantRoutes(api)
		initWebhookRoutes(api)
		initAdminRoutes(api)
		initInternalRoutes(api)
	}

	return router
}
