package controllers

import (
	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
)

// workerFromContext extracts the authenticated worker set by the auth middleware
func workerFromContext(c *gin.Context) (*models.Worker, bool) {
	val, exists := c.Get("worker")
	if !exists {
		utils.LogError("Worker not found in context")
		utils.Unauthorized(c, "Worker not found")
		return nil, false
	}
	worker, ok := val.(models.Worker)
	if !ok {
		utils.LogError("Invalid worker type in context")
		utils.BadRequest(c, "Invalid worker in context", nil)
		return nil, false
	}
	return &worker, true
}

// merchantFromContext extracts the authenticated merchant set by the auth middleware
func merchantFromContext(c *gin.Context) (*models.Merchant, bool) {
	val, exists := c.Get("merchant")
	if !exists {
		utils.LogError("Merchant not found in context")
		utils.Unauthorized(c, "Merchant not found")
		return nil, false
	}
	merchant, ok := val.(models.Merchant)
	if !ok {
		utils.LogError("Invalid merchant type in context")
		utils.BadRequest(c, "Invalid merchant in context", nil)
		return nil, false
	}
	return &merchant, true
}

// GetWorkerWalletBalance returns the worker's wallet balance
func GetWorkerWalletBalance(c *gin.Context) {
	utils.LogInfo("GetWorkerWalletBalance called")
	worker, ok := workerFromContext(c)
	if !ok {
		return
	}
	getWalletBalance(c, models.WalletOwnerWorker, worker.ID)
}

// GetMerchantWalletBalance returns the merchant's wallet balance
func GetMerchantWalletBalance(c *gin.Context) {
	utils.LogInfo("GetMerchantWalletBalance called")
	merchant, ok := merchantFromContext(c)
	if !ok {
		return
	}
	getWalletBalance(c, models.WalletOwnerMerchant, merchant.ID)
}

func getWalletBalance(c *gin.Context, ownerType string, ownerID uint) {
	wallet, err := getOrCreateWallet(config.DB, ownerType, ownerID)
	if err != nil {
		utils.LogError("Failed to get wallet for %s ID: %d: %v", ownerType, ownerID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}
	utils.LogInfo("Retrieved wallet balance for %s ID: %d", ownerType, ownerID)

	utils.Success(c, "Wallet balance retrieved successfully", gin.H{
		"balance":         wallet.Balance,
		"balance_display": utils.FormatIDR(wallet.Balance),
		"currency":        wallet.Currency,
	})
}

// GetWorkerWalletTransactions returns the worker's ledger entries, newest first
func GetWorkerWalletTransactions(c *gin.Context) {
	utils.LogInfo("GetWorkerWalletTransactions called")
	worker, ok := workerFromContext(c)
	if !ok {
		return
	}
	listWalletTransactions(c, models.WalletOwnerWorker, worker.ID)
}

// GetMerchantWalletTransactions returns the merchant's ledger entries, newest first
func GetMerchantWalletTransactions(c *gin.Context) {
	utils.LogInfo("GetMerchantWalletTransactions called")
	merchant, ok := merchantFromContext(c)
	if !ok {
		return
	}
	listWalletTransactions(c, models.WalletOwnerMerchant, merchant.ID)
}

func listWalletTransactions(c *gin.Context, ownerType string, ownerID uint) {
	wallet, err := getOrCreateWallet(config.DB, ownerType, ownerID)
	if err != nil {
		utils.LogError("Failed to get wallet for %s ID: %d: %v", ownerType, ownerID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions for wallet ID: %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to count transactions", err.Error())
		return
	}

	var transactions []models.WalletTransaction
	if err := config.DB.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch transactions for wallet ID: %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Wallet transactions retrieved successfully", gin.H{
		"balance":      wallet.Balance,
		"transactions": transactions,
	}, total, pagination.Page, pagination.Limit)
}
