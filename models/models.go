package models

import (
	"time"

	"gorm.io/gorm"
)

// Worker represents a gig worker on the platform
type Worker struct {
	gorm.Model
	FullName         string   `json:"full_name"`
	Email            string   `gorm:"uniqueIndex;not null" json:"email"`
	Phone            string   `json:"phone"`
	IsActive         bool     `json:"is_active" gorm:"default:true"`
	ReliabilityScore *float64 `json:"reliability_score"`

	BankAccounts []BankAccount `json:"bank_accounts,omitempty" gorm:"foreignKey:WorkerID"`
}

// Merchant represents a business that posts jobs and pays workers
type Merchant struct {
	gorm.Model
	BusinessName string `json:"business_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string `json:"phone"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}

// Booking status constants
const (
	BookingStatusScheduled  = "scheduled"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusNoShow     = "no_show"
)

// Booking represents a worker engagement. Booking lifecycle management lives
// in the marketplace service; this core only reads bookings as input to the
// reliability score and marks completion to trigger a recalculation.
type Booking struct {
	gorm.Model
	WorkerID        uint       `json:"worker_id" gorm:"index"`
	MerchantID      uint       `json:"merchant_id" gorm:"index"`
	Status          string     `json:"status" gorm:"default:'scheduled'"`
	StartDate       time.Time  `json:"start_date"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
}

// Review represents a merchant's rating of a worker after a booking
type Review struct {
	gorm.Model
	BookingID  uint   `json:"booking_id" gorm:"index"`
	WorkerID   uint   `json:"worker_id" gorm:"index"`
	MerchantID uint   `json:"merchant_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
