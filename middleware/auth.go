package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// parseToken validates the bearer token and returns its claims. Token
// issuance is owned by the marketplace auth service; this core only verifies.
func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.LogError("Missing Authorization header")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
		c.Abort()
		return nil, false
	}

	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		utils.LogError("Invalid token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
		c.Abort()
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.LogError("Invalid token claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		c.Abort()
		return nil, false
	}
	return claims, true
}

func claimRole(claims jwt.MapClaims) string {
	role, _ := claims["role"].(string)
	return role
}

func claimActorID(claims jwt.MapClaims) (uint, bool) {
	id, ok := claims["actor_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}

// WorkerAuthMiddleware authenticates a worker and sets it in the context
func WorkerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("WorkerAuthMiddleware called")

		claims, ok := parseToken(c)
		if !ok {
			return
		}
		if claimRole(claims) != "worker" {
			utils.LogError("Non-worker token used on worker route")
			c.JSON(http.StatusForbidden, gin.H{"error": "Worker access required"})
			c.Abort()
			return
		}
		workerID, ok := claimActorID(claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		var worker models.Worker
		if err := config.DB.First(&worker, workerID).Error; err != nil {
			utils.LogError("Worker not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Worker not found"})
			c.Abort()
			return
		}
		if !worker.IsActive {
			utils.LogError("Inactive worker attempted access: %d", workerID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			c.Abort()
			return
		}

		c.Set("worker", worker)
		utils.LogInfo("Worker %d authenticated successfully", workerID)
		c.Next()
	}
}

// MerchantAuthMiddleware authenticates a merchant and sets it in the context
func MerchantAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("MerchantAuthMiddleware called")

		claims, ok := parseToken(c)
		if !ok {
			return
		}
		if claimRole(claims) != "merchant" {
			utils.LogError("Non-merchant token used on merchant route")
			c.JSON(http.StatusForbidden, gin.H{"error": "Merchant access required"})
			c.Abort()
			return
		}
		merchantID, ok := claimActorID(claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		var merchant models.Merchant
		if err := config.DB.First(&merchant, merchantID).Error; err != nil {
			utils.LogError("Merchant not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Merchant not found"})
			c.Abort()
			return
		}
		if !merchant.IsActive {
			utils.LogError("Inactive merchant attempted access: %d", merchantID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			c.Abort()
			return
		}

		c.Set("merchant", merchant)
		utils.LogInfo("Merchant %d authenticated successfully", merchantID)
		c.Next()
	}
}

// AdminAuthMiddleware authenticates an operator token for the admin routes
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminAuthMiddleware called")

		claims, ok := parseToken(c)
		if !ok {
			return
		}
		if claimRole(claims) != "admin" {
			utils.LogError("Non-admin token used on admin route")
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// InternalAuthMiddleware guards service-to-service routes with a shared token
func InternalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Internal-Token")
		if token == "" || token != os.Getenv("INTERNAL_API_TOKEN") {
			utils.LogError("Invalid internal token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid internal token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
