package controllers

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HandleWebhook authenticates an inbound callback, classifies it into a
// canonical event and dispatches it. No state mutation happens before
// verification succeeds. Duplicate deliveries are no-ops.
func HandleWebhook(c *gin.Context) {
	utils.LogInfo("HandleWebhook called")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		utils.BadRequest(c, "Failed to read request body", nil)
		return
	}

	provider, err := webhookVerifier.Verify(c.Request.Header, body)
	if err != nil {
		utils.LogError("Webhook verification failed: %v", err)
		utils.WebhooksReceived.WithLabelValues("rejected").Inc()
		utils.HandleError(c, err)
		return
	}
	utils.WebhooksReceived.WithLabelValues("verified").Inc()
	utils.LogDebug("Webhook verified for provider: %s", provider.Name)

	var event *utils.WebhookEvent
	switch provider.Channel {
	case config.WebhookChannelPayment:
		event = utils.ClassifyPaymentEvent(provider, body)
	case config.WebhookChannelSocial:
		event = utils.ClassifySocialEvent(provider, body)
	default:
		event = &utils.WebhookEvent{Provider: provider.Name, Type: utils.EventUnknown}
	}
	utils.WebhookEventsHandled.WithLabelValues(event.Type).Inc()

	result, err := dispatchWebhookEvent(config.DB, event)
	if err != nil {
		utils.LogError("Webhook handler failed for event %s (%s): %v", event.Type, event.ExternalID, err)
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo("Webhook %s handled: %s", event.Type, result)
	utils.Success(c, "Webhook processed", gin.H{
		"event":  event.Type,
		"result": result,
	})
}

// dispatchWebhookEvent routes a canonical event to its idempotent handler.
// Unrecognized events are acknowledged with no action.
func dispatchWebhookEvent(db *gorm.DB, event *utils.WebhookEvent) (string, error) {
	switch event.Type {
	case utils.EventPaymentSucceeded:
		return handlePaymentSucceeded(db, event)
	case utils.EventPaymentExpired:
		return handlePaymentTerminal(db, event, models.PaymentStatusExpired)
	case utils.EventPaymentFailed:
		return handlePaymentTerminal(db, event, models.PaymentStatusFailed)
	case utils.EventPayoutCompleted:
		return handlePayoutCompleted(db, event)
	case utils.EventPayoutFailed:
		return handlePayoutFailed(db, event)
	case utils.EventPostPublished, utils.EventPostDeleted, utils.EventPostFailed, utils.EventMetricsUpdate:
		return handleSocialPostEvent(db, event)
	case utils.EventSubscriptionUpdate:
		// Subscription plans live in the marketplace service; this core
		// only acknowledges the event.
		return "acknowledged", nil
	default:
		return "ignored", nil
	}
}

func findPaymentByEvent(db *gorm.DB, event *utils.WebhookEvent) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := db.Where("external_id = ?", event.ExternalID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && event.GatewayID != "" {
		err = db.Where("gateway_payment_id = ?", event.GatewayID).First(&payment).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Payment transaction not found")
		}
		return nil, err
	}
	return &payment, nil
}

// handlePaymentSucceeded confirms a top-up: the transaction moves to success
// and the merchant wallet is credited the requested amount, exactly once.
func handlePaymentSucceeded(db *gorm.DB, event *utils.WebhookEvent) (string, error) {
	payment, err := findPaymentByEvent(db, event)
	if err != nil {
		return "", err
	}

	if payment.Status == models.PaymentStatusSuccess {
		utils.LogDebug("Payment %s already confirmed, skipping", payment.ExternalID)
		return "already_processed", nil
	}
	if payment.Status != models.PaymentStatusPending {
		return "", utils.NewStateConflictError(
			fmt.Sprintf("Cannot confirm payment in status %s", payment.Status))
	}

	wallet, err := getOrCreateWallet(db, models.WalletOwnerMerchant, payment.MerchantID)
	if err != nil {
		return "", err
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		// Conditional update keys the status check and the transition
		// together, so a replayed delivery cannot credit twice.
		result := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentStatusPending).
			Update("status", models.PaymentStatusSuccess)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NewStateConflictError("Payment was confirmed concurrently")
		}

		if err := creditWallet(tx, wallet.ID, payment.Amount); err != nil {
			return err
		}
		_, err := createWalletTransaction(tx, wallet.ID, payment.Amount, models.TransactionTypeTopup,
			"Wallet top-up via QRIS", nil, payment.ExternalID)
		return err
	})
	if txErr != nil {
		if utils.IsStateConflictError(txErr) {
			return "already_processed", nil
		}
		return "", txErr
	}
	return "credited", nil
}

// handlePaymentTerminal moves a pending top-up to expired or failed
func handlePaymentTerminal(db *gorm.DB, event *utils.WebhookEvent, target string) (string, error) {
	payment, err := findPaymentByEvent(db, event)
	if err != nil {
		return "", err
	}

	if payment.Status == target {
		return "already_processed", nil
	}
	if payment.Status != models.PaymentStatusPending {
		return "", utils.NewStateConflictError(
			fmt.Sprintf("Cannot move payment from %s to %s", payment.Status, target))
	}

	reason := event.FailureReason
	if reason == "" && target == models.PaymentStatusExpired {
		reason = "QRIS payment expired"
	}
	if err := db.Model(payment).Updates(map[string]interface{}{
		"status":         target,
		"failure_reason": reason,
	}).Error; err != nil {
		return "", err
	}
	return "updated", nil
}

func findPayoutByEvent(db *gorm.DB, event *utils.WebhookEvent) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	err := db.Where("external_id = ?", event.ExternalID).First(&payout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && event.GatewayID != "" {
		err = db.Where("gateway_payout_id = ?", event.GatewayID).First(&payout).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Payout request not found")
		}
		return nil, err
	}
	return &payout, nil
}

// handlePayoutCompleted settles a processing payout. Confirming a payout
// that was never submitted to the gateway is a structural error, not a no-op.
func handlePayoutCompleted(db *gorm.DB, event *utils.WebhookEvent) (string, error) {
	payout, err := findPayoutByEvent(db, event)
	if err != nil {
		return "", err
	}

	if payout.Status == models.PayoutStatusCompleted {
		utils.LogDebug("Payout %s already completed, skipping", payout.ExternalID)
		return "already_processed", nil
	}
	if payout.Status != models.PayoutStatusProcessing {
		return "", utils.NewStateConflictError(
			fmt.Sprintf("Cannot complete payout in status %s", payout.Status))
	}

	now := time.Now()
	result := db.Model(&models.PayoutRequest{}).
		Where("id = ? AND status = ?", payout.ID, models.PayoutStatusProcessing).
		Updates(map[string]interface{}{
			"status":       models.PayoutStatusCompleted,
			"completed_at": &now,
		})
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "already_processed", nil
	}

	notifyPayoutSettled(db, payout, true, "")
	return "completed", nil
}

// handlePayoutFailed fails a processing payout and returns the debited gross
// amount to the worker's wallet, exactly once.
func handlePayoutFailed(db *gorm.DB, event *utils.WebhookEvent) (string, error) {
	payout, err := findPayoutByEvent(db, event)
	if err != nil {
		return "", err
	}

	if payout.Status == models.PayoutStatusFailed {
		utils.LogDebug("Payout %s already failed, skipping", payout.ExternalID)
		return "already_processed", nil
	}
	if payout.Status != models.PayoutStatusProcessing {
		return "", utils.NewStateConflictError(
			fmt.Sprintf("Cannot fail payout in status %s", payout.Status))
	}

	reason := event.FailureReason
	if reason == "" {
		reason = "Disbursement failed"
	}

	wallet, err := getOrCreateWallet(db, models.WalletOwnerWorker, payout.WorkerID)
	if err != nil {
		return "", err
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.PayoutRequest{}).
			Where("id = ? AND status = ?", payout.ID, models.PayoutStatusProcessing).
			Updates(map[string]interface{}{
				"status":         models.PayoutStatusFailed,
				"failed_at":      &now,
				"failure_reason": reason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NewStateConflictError("Payout was settled concurrently")
		}

		if err := creditWallet(tx, wallet.ID, payout.Amount); err != nil {
			return err
		}
		_, err := createWalletTransaction(tx, wallet.ID, payout.Amount, models.TransactionTypeRefund,
			fmt.Sprintf("Refund for failed withdrawal (%s)", reason), nil, payout.ExternalID)
		return err
	})
	if txErr != nil {
		if utils.IsStateConflictError(txErr) {
			return "already_processed", nil
		}
		return "", txErr
	}

	notifyPayoutSettled(db, payout, false, reason)
	return "refunded", nil
}

// notifyPayoutSettled emails the worker about a terminal payout, best-effort
func notifyPayoutSettled(db *gorm.DB, payout *models.PayoutRequest, completed bool, reason string) {
	var worker models.Worker
	if err := db.First(&worker, payout.WorkerID).Error; err != nil {
		utils.LogError("Failed to load worker %d for payout notification: %v", payout.WorkerID, err)
		return
	}
	go func() {
		if err := utils.SendPayoutSettledEmail(worker.Email, payout.AccountHolderName, payout.NetAmount, completed, reason); err != nil {
			utils.LogDebug("Payout notification email not sent: %v", err)
		}
	}()
}

// handleSocialPostEvent updates the tracked post for distribution callbacks.
// Posts created outside this core are acknowledged without action.
func handleSocialPostEvent(db *gorm.DB, event *utils.WebhookEvent) (string, error) {
	var post models.SocialPost
	if err := db.Where("external_id = ?", event.ExternalID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogDebug("Social event %s for unknown post %s, ignoring", event.Type, event.ExternalID)
			return "ignored", nil
		}
		return "", err
	}

	switch event.Type {
	case utils.EventPostPublished:
		if post.Status == models.PostStatusPublished {
			return "already_processed", nil
		}
		now := time.Now()
		if err := db.Model(&post).Updates(map[string]interface{}{
			"status":       models.PostStatusPublished,
			"published_at": &now,
		}).Error; err != nil {
			return "", err
		}
	case utils.EventPostDeleted:
		if post.Status == models.PostStatusDeleted {
			return "already_processed", nil
		}
		if err := db.Model(&post).Update("status", models.PostStatusDeleted).Error; err != nil {
			return "", err
		}
	case utils.EventPostFailed:
		if post.Status == models.PostStatusFailed {
			return "already_processed", nil
		}
		if err := db.Model(&post).Updates(map[string]interface{}{
			"status":         models.PostStatusFailed,
			"failure_reason": event.FailureReason,
		}).Error; err != nil {
			return "", err
		}
	case utils.EventMetricsUpdate:
		if err := db.Model(&post).Updates(map[string]interface{}{
			"views_count": event.Views,
			"likes_count": event.Likes,
		}).Error; err != nil {
			return "", err
		}
	}
	return "updated", nil
}
