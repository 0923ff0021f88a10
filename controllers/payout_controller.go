package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/gateway"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestPayout validates and submits a worker withdrawal to the gateway's
// disbursement API
func RequestPayout(c *gin.Context) {
	utils.LogInfo("RequestPayout called")
	worker, ok := workerFromContext(c)
	if !ok {
		return
	}
	utils.LogInfo("Processing payout request for worker ID: %d", worker.ID)

	var req struct {
		Amount        int64 `json:"amount" binding:"required,min=1"`
		BankAccountID *uint `json:"bank_account_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for worker ID: %d: %v", worker.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive", err.Error())
		return
	}

	payout, err := requestPayout(c.Request.Context(), config.DB, worker, req.Amount, req.BankAccountID)
	if err != nil {
		utils.LogError("Payout request failed for worker ID: %d: %v", worker.ID, err)
		utils.HandleError(c, err)
		return
	}
	utils.LogInfo("Successfully submitted payout for worker ID: %d, external ID: %s", worker.ID, payout.ExternalID)

	utils.Created(c, "Payout request submitted successfully", gin.H{
		"payout":            payoutResponse(payout),
		"estimated_arrival": payout.EstimatedArrival,
	})
}

func payoutResponse(payout *models.PayoutRequest) gin.H {
	return gin.H{
		"id":                  payout.ID,
		"external_id":         payout.ExternalID,
		"amount":              payout.Amount,
		"fee_amount":          payout.FeeAmount,
		"net_amount":          payout.NetAmount,
		"net_amount_display":  utils.FormatIDR(payout.NetAmount),
		"status":              payout.Status,
		"bank_code":           payout.BankCode,
		"account_number":      payout.AccountNumber,
		"account_holder_name": payout.AccountHolderName,
		"requested_at":        payout.RequestedAt,
	}
}

// resolveBankAccount returns the explicit account when supplied and owned by
// the worker, otherwise the worker's primary account.
func resolveBankAccount(db *gorm.DB, workerID uint, bankAccountID *uint) (*models.BankAccount, error) {
	var account models.BankAccount
	if bankAccountID != nil {
		err := db.Where("id = ? AND worker_id = ?", *bankAccountID, workerID).First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewNotFoundError("Bank account not found")
			}
			return nil, err
		}
		return &account, nil
	}

	err := db.Where("worker_id = ? AND is_primary = ?", workerID, true).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("No primary bank account registered")
		}
		return nil, err
	}
	return &account, nil
}

// requestPayout runs the payout state machine up to gateway submission.
// The wallet debit happens only after the gateway accepts the disbursement,
// so a rejected request never touches the balance.
func requestPayout(ctx context.Context, db *gorm.DB, worker *models.Worker, amount int64, bankAccountID *uint) (*models.PayoutRequest, error) {
	if err := utils.ValidatePayoutAmount(paymentConfig, amount); err != nil {
		return nil, err
	}

	wallet, err := getOrCreateWallet(db, models.WalletOwnerWorker, worker.ID)
	if err != nil {
		return nil, utils.WrapError(err, "failed to get wallet")
	}
	if amount > wallet.Balance {
		return nil, utils.NewInsufficientFundsError("Insufficient wallet balance")
	}

	account, err := resolveBankAccount(db, worker.ID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBankDetails(account.BankCode, account.AccountNumber, account.AccountHolderName); err != nil {
		return nil, err
	}

	feeAmount := utils.PayoutFee(paymentConfig, account.BankCode, amount)

	payout := models.PayoutRequest{
		WorkerID:      worker.ID,
		BankAccountID: account.ID,
		ExternalID:    fmt.Sprintf("payout_%s", uuid.New().String()),
		Amount:        amount,
		FeeAmount:     feeAmount,
		NetAmount:     amount - feeAmount,
		Status:        models.PayoutStatusPending,
		// Snapshot, not a live reference: later edits to the bank
		// account must not change a submitted payout.
		BankCode:          account.BankCode,
		AccountNumber:     account.AccountNumber,
		AccountHolderName: account.AccountHolderName,
		RequestedAt:       time.Now(),
	}
	if err := db.Create(&payout).Error; err != nil {
		return nil, utils.WrapError(err, "failed to record payout request")
	}
	utils.LogDebug("Created payout request - External ID: %s, Net: %d", payout.ExternalID, payout.NetAmount)

	gatewayPayout, err := gatewayClient.CreatePayout(ctx, gateway.CreatePayoutInput{
		ExternalID:        payout.ExternalID,
		Amount:            payout.NetAmount,
		BankCode:          payout.BankCode,
		AccountNumber:     payout.AccountNumber,
		AccountHolderName: payout.AccountHolderName,
		Description:       fmt.Sprintf("KerjaLink withdrawal %s", payout.ExternalID),
	})
	if err != nil {
		utils.LogError("Gateway rejected payout %s: %v", payout.ExternalID, err)
		now := time.Now()
		updates := map[string]interface{}{
			"status":         models.PayoutStatusFailed,
			"failed_at":      &now,
			"failure_reason": err.Error(),
		}
		if saveErr := db.Model(&payout).Updates(updates).Error; saveErr != nil {
			utils.LogError("Failed to mark payout %s failed: %v", payout.ExternalID, saveErr)
		}
		utils.PayoutsRequested.WithLabelValues("gateway_error").Inc()
		return nil, utils.NewGatewayError("Failed to create disbursement with gateway", err)
	}

	// Gateway accepted: debit the gross amount and move to processing in one
	// transaction. The conditional debit re-checks the balance, so a
	// concurrent withdrawal cannot overdraw the wallet.
	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := debitWallet(tx, wallet.ID, payout.Amount); err != nil {
			return err
		}
		if _, err := createWalletTransaction(tx, wallet.ID, -payout.Amount, models.TransactionTypePayout,
			fmt.Sprintf("Withdrawal to %s %s", payout.BankCode, payout.AccountNumber), nil, payout.ExternalID); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":            models.PayoutStatusProcessing,
			"gateway_payout_id": gatewayPayout.ID,
			"processed_at":      &now,
		}
		if gatewayPayout.EstimatedArrivalDate != nil {
			updates["estimated_arrival"] = gatewayPayout.EstimatedArrivalDate
		}
		return tx.Model(&payout).Updates(updates).Error
	})
	if txErr != nil {
		// The balance changed between the pre-check and the debit.
		// The disbursement is already with the gateway; record the
		// failure so reconciliation can pick it up.
		utils.LogError("Post-acceptance debit failed for payout %s: %v", payout.ExternalID, txErr)
		now := time.Now()
		db.Model(&payout).Updates(map[string]interface{}{
			"status":         models.PayoutStatusFailed,
			"failed_at":      &now,
			"failure_reason": txErr.Error(),
		})
		utils.PayoutsRequested.WithLabelValues("debit_failed").Inc()
		return nil, txErr
	}

	utils.PayoutsRequested.WithLabelValues("accepted").Inc()
	if err := db.First(&payout, payout.ID).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

// CancelPayout cancels a payout that has not been submitted to the gateway.
// pending -> cancelled is the only manual backward transition; anything past
// pending is owned by the webhook flow.
func CancelPayout(c *gin.Context) {
	utils.LogInfo("CancelPayout called")
	worker, ok := workerFromContext(c)
	if !ok {
		return
	}

	var payout models.PayoutRequest
	if err := config.DB.Where("id = ? AND worker_id = ?", c.Param("id"), worker.ID).First(&payout).Error; err != nil {
		utils.LogError("Payout not found for worker ID: %d", worker.ID)
		utils.NotFound(c, "Payout request not found")
		return
	}

	if payout.Status == models.PayoutStatusCancelled {
		utils.Success(c, "Payout request already cancelled", gin.H{"payout": payoutResponse(&payout)})
		return
	}
	if payout.Status != models.PayoutStatusPending {
		utils.LogError("Cannot cancel payout %s in status %s", payout.ExternalID, payout.Status)
		utils.Conflict(c, "Only pending payout requests can be cancelled", gin.H{"status": payout.Status})
		return
	}

	if err := config.DB.Model(&payout).Update("status", models.PayoutStatusCancelled).Error; err != nil {
		utils.LogError("Failed to cancel payout %s: %v", payout.ExternalID, err)
		utils.InternalServerError(c, "Failed to cancel payout request", err.Error())
		return
	}
	payout.Status = models.PayoutStatusCancelled

	utils.LogInfo("Cancelled payout %s for worker ID: %d", payout.ExternalID, worker.ID)
	utils.Success(c, "Payout request cancelled", gin.H{"payout": payoutResponse(&payout)})
}

// ListPayouts returns the worker's payout history, newest first
func ListPayouts(c *gin.Context) {
	utils.LogInfo("ListPayouts called")
	worker, ok := workerFromContext(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.PayoutRequest{}).Where("worker_id = ?", worker.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payouts for worker ID: %d: %v", worker.ID, err)
		utils.InternalServerError(c, "Failed to count payout requests", err.Error())
		return
	}

	var payouts []models.PayoutRequest
	if err := query.Order("created_at DESC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&payouts).Error; err != nil {
		utils.LogError("Failed to fetch payouts for worker ID: %d: %v", worker.ID, err)
		utils.InternalServerError(c, "Failed to fetch payout requests", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Payout requests retrieved successfully", payouts, total, pagination.Page, pagination.Limit)
}
