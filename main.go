package main

import (
	"log"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/controllers"
	"github.com/kerjalink/kerjapay/gateway"
	"github.com/kerjalink/kerjapay/routes"
	"github.com/kerjalink/kerjapay/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Wire the gateway client and webhook verifier from config
	controllers.SetGatewayClient(gateway.NewXenditClient(cfg.Gateway))
	controllers.SetWebhookVerifier(utils.NewWebhookVerifier(cfg.Webhooks))
	controllers.SetPaymentConfig(cfg.Payment)

	// Set up router
	router := routes.SetupRouter()

	// Add middleware
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
