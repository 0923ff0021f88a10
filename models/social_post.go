package models

import (
	"time"

	"gorm.io/gorm"
)

// Social post statuses reported by the distribution platform
const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusDeleted   = "deleted"
	PostStatusFailed    = "failed"
)

// SocialPost tracks a job listing distributed to an external social platform.
// Status and metrics are driven by the platform's webhook callbacks.
type SocialPost struct {
	gorm.Model
	MerchantID    uint       `json:"merchant_id" gorm:"index"`
	ExternalID    string     `json:"external_id" gorm:"uniqueIndex"`
	Platform      string     `json:"platform"`
	Status        string     `json:"status" gorm:"default:'pending'"`
	PublishedAt   *time.Time `json:"published_at"`
	ViewsCount    int64      `json:"views_count" gorm:"default:0"`
	LikesCount    int64      `json:"likes_count" gorm:"default:0"`
	FailureReason string     `json:"failure_reason,omitempty"`
}
