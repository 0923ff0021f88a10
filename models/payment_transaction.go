package models

import (
	"time"
)

// Top-up transaction statuses. success, failed and expired are terminal.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// PaymentTransaction records a merchant wallet top-up through the gateway's
// QRIS instant payment flow. Mutated only by the top-up orchestrator (gateway
// response) and the webhook handler (confirmation).
type PaymentTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	MerchantID       uint      `json:"merchant_id" gorm:"index"`
	ExternalID       string    `json:"external_id" gorm:"uniqueIndex"`
	Amount           int64     `json:"amount"`
	FeeAmount        int64     `json:"fee_amount"`
	TotalAmount      int64     `json:"total_amount"`
	Status           string    `json:"status" gorm:"default:'pending'"`
	GatewayPaymentID string    `json:"gateway_payment_id" gorm:"index"`
	PaymentURL       string    `json:"payment_url"`
	QRString         string    `json:"-"`
	QRISExpiresAt    time.Time `json:"qris_expires_at"`
	FailureReason    string    `json:"failure_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
