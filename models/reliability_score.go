package models

import (
	"time"
)

// ReliabilityScoreHistory is an append-only record of one reliability score
// calculation. The worker's current score field mirrors the latest row.
type ReliabilityScoreHistory struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	WorkerID           uint      `json:"worker_id" gorm:"index"`
	Score              float64   `json:"score"`
	AttendanceRate     float64   `json:"attendance_rate"`
	PunctualityRate    float64   `json:"punctuality_rate"`
	AvgRating          float64   `json:"avg_rating"`
	CompletedJobsCount int       `json:"completed_jobs_count"`
	CalculatedAt       time.Time `json:"calculated_at"`
}
