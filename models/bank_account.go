package models

import (
	"gorm.io/gorm"
)

// BankAccount is a worker's registered disbursement destination. At most one
// primary account per worker is expected; the payout orchestrator falls back
// to the primary when no explicit account is supplied.
type BankAccount struct {
	gorm.Model
	WorkerID          uint   `json:"worker_id" gorm:"index"`
	BankCode          string `json:"bank_code"`
	AccountNumber     string `json:"account_number"`
	AccountHolderName string `json:"account_holder_name"`
	IsPrimary         bool   `json:"is_primary" gorm:"default:false"`
}
