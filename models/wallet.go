package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet owner types
const (
	WalletOwnerWorker   = "worker"
	WalletOwnerMerchant = "merchant"
)

// Wallet holds the spendable balance for exactly one worker or merchant.
// Created lazily on first balance lookup. Balance is in IDR minor units
// and must never go negative.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OwnerType string         `json:"owner_type" gorm:"uniqueIndex:idx_wallet_owner;not null"`
	OwnerID   uint           `json:"owner_id" gorm:"uniqueIndex:idx_wallet_owner;not null"`
	Balance   int64          `json:"balance" gorm:"default:0"`
	Currency  string         `json:"currency" gorm:"default:'IDR'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Ledger entry types
const (
	TransactionTypeHold    = "hold"
	TransactionTypeRelease = "release"
	TransactionTypeEarn    = "earn"
	TransactionTypePayout  = "payout"
	TransactionTypeRefund  = "refund"
	TransactionTypeTopup   = "topup"
)

// Ledger entry statuses
const (
	TransactionStatusPendingReview = "pending_review"
	TransactionStatusAvailable     = "available"
	TransactionStatusReleased      = "released"
	TransactionStatusDisputed      = "disputed"
	TransactionStatusCancelled     = "cancelled"
)

// WalletTransaction is an append-only ledger entry. Amount is signed:
// credits positive, debits negative, so a wallet's balance always equals
// the sum of its entries. Entries are never mutated after creation except
// for status progression tied to the booking lifecycle.
type WalletTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WalletID    uint      `json:"wallet_id" gorm:"index"`
	Wallet      Wallet    `json:"-" gorm:"foreignKey:WalletID"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Status      string    `json:"status" gorm:"default:'available'"`
	BookingID   *uint     `json:"booking_id"`
	Description string    `json:"description"`
	Reference   string    `json:"reference" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}
