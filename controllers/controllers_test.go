package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/gateway"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens an isolated in-memory database with the full schema and
// points the package-global connection at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:kerjapay_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := config.MigrateModels(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	config.DB = db
	SetPaymentConfig(config.DefaultPaymentConfig())
	return db
}

// fakeGatewayClient scripts gateway responses for orchestrator tests
type fakeGatewayClient struct {
	topUp     *gateway.TopUpPayment
	topUpErr  error
	payout    *gateway.Payout
	payoutErr error

	lastTopUpExternalID string
	lastTopUpAmount     int64
	lastPayoutInput     gateway.CreatePayoutInput
}

func (f *fakeGatewayClient) CreateTopUpPayment(_ context.Context, externalID string, amount int64, _ string, _ int) (*gateway.TopUpPayment, error) {
	f.lastTopUpExternalID = externalID
	f.lastTopUpAmount = amount
	if f.topUpErr != nil {
		return nil, f.topUpErr
	}
	if f.topUp != nil {
		return f.topUp, nil
	}
	return &gateway.TopUpPayment{
		ID:         "qr_" + externalID,
		PaymentURL: "https://pay.example.com/" + externalID,
		QRString:   "000201qr",
		ExpiresAt:  time.Now().Add(time.Hour),
		Status:     "ACTIVE",
	}, nil
}

func (f *fakeGatewayClient) CreatePayout(_ context.Context, input gateway.CreatePayoutInput) (*gateway.Payout, error) {
	f.lastPayoutInput = input
	if f.payoutErr != nil {
		return nil, f.payoutErr
	}
	if f.payout != nil {
		return f.payout, nil
	}
	arrival := time.Now().Add(24 * time.Hour)
	return &gateway.Payout{
		ID:                   "disb_" + input.ExternalID,
		Status:               "PENDING",
		EstimatedArrivalDate: &arrival,
	}, nil
}

func (f *fakeGatewayClient) GetPayoutStatus(_ context.Context, id string) (*gateway.Payout, error) {
	return &gateway.Payout{ID: id, Status: "PENDING"}, nil
}

func useFakeGateway(t *testing.T) *fakeGatewayClient {
	t.Helper()
	fake := &fakeGatewayClient{}
	SetGatewayClient(fake)
	return fake
}
