package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitiateTopUp creates a QRIS payment so a merchant can add funds to its wallet
func InitiateTopUp(c *gin.Context) {
	utils.LogInfo("InitiateTopUp called")
	merchant, ok := merchantFromContext(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing top-up request for merchant ID: %d", merchant.ID)

	var req struct {
		Amount      int64  `json:"amount" binding:"required,min=1"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for merchant ID: %d: %v", merchant.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive", err.Error())
		return
	}

	payment, err := initializeTopUp(c.Request.Context(), config.DB, merchant.ID, req.Amount, req.Description)
	if err != nil {
		utils.LogError("Top-up initiation failed for merchant ID: %d: %v", merchant.ID, err)
		utils.HandleError(c, err)
		return
	}
	utils.LogInfo("Successfully initiated top-up for merchant ID: %d, external ID: %s", merchant.ID, payment.ExternalID)

	utils.Created(c, "Top-up payment created successfully", gin.H{
		"payment_id":     payment.ID,
		"external_id":    payment.ExternalID,
		"amount":         payment.Amount,
		"fee_amount":     payment.FeeAmount,
		"total_amount":   payment.TotalAmount,
		"amount_display": utils.FormatIDR(payment.TotalAmount),
		"payment_url":    payment.PaymentURL,
		"expires_at":     payment.QRISExpiresAt,
	})
}

// initializeTopUp validates the amount, computes fees, records the pending
// transaction and asks the gateway for a QRIS payment. A gateway failure
// moves the transaction to failed with the provider's message as reason;
// the caller must re-initiate, there is no automatic retry.
func initializeTopUp(ctx context.Context, db *gorm.DB, merchantID uint, amount int64, description string) (*models.PaymentTransaction, error) {
	if err := utils.ValidateTopUpAmount(paymentConfig, amount); err != nil {
		return nil, err
	}

	// Wallet is created lazily here so the confirmation webhook always has
	// a wallet to credit.
	if _, err := getOrCreateWallet(db, models.WalletOwnerMerchant, merchantID); err != nil {
		return nil, utils.WrapError(err, "failed to get wallet")
	}

	feeAmount := utils.TopUpFee(paymentConfig, amount)
	if description == "" {
		description = "Wallet top-up"
	}

	payment := models.PaymentTransaction{
		MerchantID:    merchantID,
		ExternalID:    fmt.Sprintf("topup_%s", uuid.New().String()),
		Amount:        amount,
		FeeAmount:     feeAmount,
		TotalAmount:   amount + feeAmount,
		Status:        models.PaymentStatusPending,
		QRISExpiresAt: time.Now().Add(time.Duration(paymentConfig.TopUpExpiryMinutes) * time.Minute),
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, utils.WrapError(err, "failed to record payment transaction")
	}
	utils.LogDebug("Created payment transaction - External ID: %s, Total: %d", payment.ExternalID, payment.TotalAmount)

	gatewayPayment, err := gatewayClient.CreateTopUpPayment(
		ctx, payment.ExternalID, payment.TotalAmount, description, paymentConfig.TopUpExpiryMinutes)
	if err != nil {
		utils.LogError("Gateway rejected top-up %s: %v", payment.ExternalID, err)
		updates := map[string]interface{}{
			"status":         models.PaymentStatusFailed,
			"failure_reason": err.Error(),
		}
		if saveErr := db.Model(&payment).Updates(updates).Error; saveErr != nil {
			utils.LogError("Failed to mark payment %s failed: %v", payment.ExternalID, saveErr)
		}
		utils.TopUpsInitiated.WithLabelValues("gateway_error").Inc()
		return nil, utils.NewGatewayError("Failed to create payment with gateway", err)
	}

	updates := map[string]interface{}{
		"gateway_payment_id": gatewayPayment.ID,
		"payment_url":        gatewayPayment.PaymentURL,
		"qr_string":          gatewayPayment.QRString,
	}
	if !gatewayPayment.ExpiresAt.IsZero() {
		updates["qris_expires_at"] = gatewayPayment.ExpiresAt
	}
	if err := db.Model(&payment).Updates(updates).Error; err != nil {
		return nil, utils.WrapError(err, "failed to persist gateway payment details")
	}

	utils.TopUpsInitiated.WithLabelValues("accepted").Inc()
	if err := db.First(&payment, payment.ID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetTopUpStatus returns one of the merchant's top-up transactions
func GetTopUpStatus(c *gin.Context) {
	utils.LogInfo("GetTopUpStatus called")
	merchant, ok := merchantFromContext(c)
	if !ok {
		return
	}

	var payment models.PaymentTransaction
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).First(&payment).Error; err != nil {
		utils.LogError("Payment transaction not found for merchant ID: %d", merchant.ID)
		utils.NotFound(c, "Payment transaction not found")
		return
	}

	utils.Success(c, "Payment transaction retrieved successfully", gin.H{
		"payment": payment,
	})
}
