// Package gateway abstracts the external payment provider: QRIS payment
// creation for top-ups, disbursement creation for payouts, and payout status
// lookup. Asynchronous confirmations arrive separately through webhooks.
package gateway

import (
	"context"
	"time"
)

// TopUpPayment is the provider's response to a QRIS payment creation
type TopUpPayment struct {
	ID         string
	PaymentURL string
	QRString   string
	ExpiresAt  time.Time
	Status     string
}

// Payout is the provider's response to a disbursement creation or lookup
type Payout struct {
	ID                   string
	Status               string
	EstimatedArrivalDate *time.Time
	FailureReason        string
}

// CreatePayoutInput carries the disbursement destination snapshot
type CreatePayoutInput struct {
	ExternalID        string
	Amount            int64
	BankCode          string
	AccountNumber     string
	AccountHolderName string
	Description       string
}

// Client is the boundary to the external payment provider. Calls surface
// provider failures synchronously; there is no retry policy here, the caller
// re-initiates explicitly.
type Client interface {
	CreateTopUpPayment(ctx context.Context, externalID string, amount int64, description string, expiryMinutes int) (*TopUpPayment, error)
	CreatePayout(ctx context.Context, input CreatePayoutInput) (*Payout, error)
	GetPayoutStatus(ctx context.Context, id string) (*Payout, error)
}
