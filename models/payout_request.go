package models

import (
	"time"
)

// Payout statuses. completed, failed and cancelled are terminal.
// pending -> processing happens only after gateway acceptance;
// processing -> completed|failed only via a verified webhook;
// pending -> cancelled is the only manual backward path.
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusCancelled  = "cancelled"
)

// PayoutRequest records a worker withdrawal to an external bank account.
// Bank details are snapshotted at request time so later edits to the bank
// account do not retroactively change a submitted payout.
type PayoutRequest struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	WorkerID          uint       `json:"worker_id" gorm:"index"`
	BankAccountID     uint       `json:"bank_account_id"`
	ExternalID        string     `json:"external_id" gorm:"uniqueIndex"`
	Amount            int64      `json:"amount"`
	FeeAmount         int64      `json:"fee_amount"`
	NetAmount         int64      `json:"net_amount"`
	Status            string     `json:"status" gorm:"default:'pending'"`
	BankCode          string     `json:"bank_code"`
	AccountNumber     string     `json:"account_number"`
	AccountHolderName string     `json:"account_holder_name"`
	GatewayPayoutID   string     `json:"gateway_payout_id" gorm:"index"`
	EstimatedArrival  *time.Time `json:"estimated_arrival"`
	RequestedAt       time.Time  `json:"requested_at"`
	ProcessedAt       *time.Time `json:"processed_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	FailedAt          *time.Time `json:"failed_at"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
