package routes

import (
	"github.com/kerjalink/kerjapay/controllers"
	"github.com/gin-gonic/gin"
)

// initWebhookRoutes initializes the inbound callback routes. Both channels
// go through the same verifier, which identifies the sending provider.
func initWebhookRoutes(router *gin.RouterGroup) {
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/payment", controllers.HandleWebhook)
		webhooks.POST("/social", controllers.HandleWebhook)
	}
}
