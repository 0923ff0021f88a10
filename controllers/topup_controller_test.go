package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
)

func createTestMerchant(t *testing.T) *models.Merchant {
	t.Helper()
	merchant := &models.Merchant{
		BusinessName: "Warung Kopi Sejahtera",
		Email:        "merchant@example.com",
		IsActive:     true,
	}
	if err := config.DB.Create(merchant).Error; err != nil {
		t.Fatalf("create merchant failed: %v", err)
	}
	return merchant
}

func TestInitializeTopUpFeeAndTotal(t *testing.T) {
	db := setupTestDB(t)
	fake := useFakeGateway(t)
	merchant := createTestMerchant(t)

	payment, err := initializeTopUp(context.Background(), db, merchant.ID, 500000, "")
	if err != nil {
		t.Fatalf("initializeTopUp failed: %v", err)
	}

	if payment.FeeAmount != 4000 {
		t.Fatalf("fee want 4000 got %d", payment.FeeAmount)
	}
	if payment.TotalAmount != 504000 {
		t.Fatalf("total want 504000 got %d", payment.TotalAmount)
	}
	if payment.Status != models.PaymentStatusPending {
		t.Fatalf("status want pending got %s", payment.Status)
	}
	if payment.PaymentURL == "" || payment.GatewayPaymentID == "" {
		t.Fatalf("gateway details not persisted: %+v", payment)
	}
	// The gateway is asked for the fee-inclusive total
	if fake.lastTopUpAmount != 504000 {
		t.Fatalf("gateway amount want 504000 got %d", fake.lastTopUpAmount)
	}
	if fake.lastTopUpExternalID != payment.ExternalID {
		t.Fatalf("gateway keyed by %s, transaction has %s", fake.lastTopUpExternalID, payment.ExternalID)
	}
}

func TestInitializeTopUpValidatesBounds(t *testing.T) {
	db := setupTestDB(t)
	useFakeGateway(t)
	merchant := createTestMerchant(t)

	if _, err := initializeTopUp(context.Background(), db, merchant.ID, 5000, ""); !utils.IsValidationError(err) {
		t.Fatalf("below minimum: want validation error got %v", err)
	}
	if _, err := initializeTopUp(context.Background(), db, merchant.ID, 20000000, ""); !utils.IsValidationError(err) {
		t.Fatalf("above maximum: want validation error got %v", err)
	}

	var count int64
	if err := db.Model(&models.PaymentTransaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected top-ups must not be recorded, found %d", count)
	}
}

func TestInitializeTopUpGatewayFailure(t *testing.T) {
	db := setupTestDB(t)
	fake := useFakeGateway(t)
	fake.topUpErr = errors.New("QR_CODE_ERROR: channel unavailable")
	merchant := createTestMerchant(t)

	_, err := initializeTopUp(context.Background(), db, merchant.ID, 100000, "")
	if !utils.IsGatewayError(err) {
		t.Fatalf("want gateway error got %v", err)
	}

	var payment models.PaymentTransaction
	if err := db.Where("merchant_id = ?", merchant.ID).First(&payment).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != models.PaymentStatusFailed {
		t.Fatalf("status want failed got %s", payment.Status)
	}
	if payment.FailureReason == "" {
		t.Fatalf("failure reason must carry the gateway message")
	}
}
