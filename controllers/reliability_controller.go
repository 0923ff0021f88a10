package controllers

import (
	"math"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Score weights and defaults
const (
	attendanceWeight  = 0.4
	punctualityWeight = 0.3
	ratingWeight      = 0.3

	defaultScore           = 3.0 // worker with no bookings at all
	noCompletedScore       = 2.5 // bookings exist but none completed
	defaultAvgRating       = 4.0 // no reviews yet
	defaultPunctualityRate = 1.0 // no completed booking has both timestamps
)

// calculateReliabilityScore computes the worker's trust score from lifetime
// booking and review history and appends an immutable history row. Returns
// nil without persisting anything when the worker has no bookings; the read
// side exposes the 3.0 default in that case.
func calculateReliabilityScore(db *gorm.DB, workerID uint) (*models.ReliabilityScoreHistory, error) {
	var totalBookings int64
	if err := db.Model(&models.Booking{}).Where("worker_id = ?", workerID).Count(&totalBookings).Error; err != nil {
		return nil, err
	}
	if totalBookings == 0 {
		utils.LogDebug("Worker %d has no bookings, skipping score calculation", workerID)
		return nil, nil
	}

	var completedBookings int64
	if err := db.Model(&models.Booking{}).
		Where("worker_id = ? AND status = ?", workerID, models.BookingStatusCompleted).
		Count(&completedBookings).Error; err != nil {
		return nil, err
	}

	history := models.ReliabilityScoreHistory{
		WorkerID:           workerID,
		CompletedJobsCount: int(completedBookings),
		CalculatedAt:       time.Now(),
	}

	if completedBookings == 0 {
		history.Score = noCompletedScore
		history.PunctualityRate = defaultPunctualityRate
		history.AvgRating = defaultAvgRating
	} else {
		attendanceRate := float64(completedBookings) / float64(totalBookings)

		// Punctuality only counts completed bookings that recorded both a
		// scheduled and an actual start.
		var timedBookings, onTimeBookings int64
		if err := db.Model(&models.Booking{}).
			Where("worker_id = ? AND status = ? AND actual_start_time IS NOT NULL", workerID, models.BookingStatusCompleted).
			Count(&timedBookings).Error; err != nil {
			return nil, err
		}
		punctualityRate := defaultPunctualityRate
		if timedBookings > 0 {
			if err := db.Model(&models.Booking{}).
				Where("worker_id = ? AND status = ? AND actual_start_time IS NOT NULL AND actual_start_time <= start_date",
					workerID, models.BookingStatusCompleted).
				Count(&onTimeBookings).Error; err != nil {
				return nil, err
			}
			punctualityRate = float64(onTimeBookings) / float64(timedBookings)
		}

		var reviewCount int64
		if err := db.Model(&models.Review{}).Where("worker_id = ?", workerID).Count(&reviewCount).Error; err != nil {
			return nil, err
		}
		avgRating := defaultAvgRating
		if reviewCount > 0 {
			var avg float64
			if err := db.Model(&models.Review{}).
				Where("worker_id = ?", workerID).
				Select("AVG(rating)").Scan(&avg).Error; err != nil {
				return nil, err
			}
			avgRating = avg
		}

		score := 5 * (attendanceRate*attendanceWeight +
			punctualityRate*punctualityWeight +
			(avgRating/5)*ratingWeight)
		score = math.Round(score*10) / 10
		if score < 1.0 {
			score = 1.0
		}
		if score > 5.0 {
			score = 5.0
		}

		history.Score = score
		history.AttendanceRate = attendanceRate
		history.PunctualityRate = punctualityRate
		history.AvgRating = avgRating
	}

	if err := db.Create(&history).Error; err != nil {
		return nil, err
	}
	// The worker's current score is a denormalized mirror of the latest row
	if err := db.Model(&models.Worker{}).Where("id = ?", workerID).
		Update("reliability_score", history.Score).Error; err != nil {
		return nil, err
	}

	utils.ScoreRecalculations.Inc()
	utils.LogInfo("Recalculated reliability score for worker %d: %.1f", workerID, history.Score)
	return &history, nil
}

// GetWorkerReliability returns the worker's current score and its components
// as read-only projections. Workers with no history get the 3.0 default.
func GetWorkerReliability(c *gin.Context) {
	utils.LogInfo("GetWorkerReliability called")

	var worker models.Worker
	if err := config.DB.First(&worker, c.Param("id")).Error; err != nil {
		utils.LogError("Worker not found: %v", err)
		utils.NotFound(c, "Worker not found")
		return
	}

	var history models.ReliabilityScoreHistory
	err := config.DB.Where("worker_id = ?", worker.ID).
		Order("calculated_at DESC").First(&history).Error
	if err != nil {
		utils.LogDebug("No score history for worker %d, returning default", worker.ID)
		utils.Success(c, "Reliability score retrieved successfully", gin.H{
			"worker_id":     worker.ID,
			"score":         defaultScore,
			"score_display": utils.FormatScore(defaultScore),
			"is_default":    true,
		})
		return
	}

	utils.Success(c, "Reliability score retrieved successfully", gin.H{
		"worker_id":          worker.ID,
		"score":              history.Score,
		"score_display":      utils.FormatScore(history.Score),
		"attendance_pct":     math.Round(history.AttendanceRate * 100),
		"punctuality_pct":    math.Round(history.PunctualityRate * 100),
		"avg_rating":         history.AvgRating,
		"completed_jobs":     history.CompletedJobsCount,
		"calculated_at":      history.CalculatedAt,
		"is_default":         false,
	})
}

// CompleteBooking marks a booking completed and recalculates the worker's
// reliability score. Called by the marketplace service when an engagement
// ends; the rest of the booking lifecycle lives there.
func CompleteBooking(c *gin.Context) {
	utils.LogInfo("CompleteBooking called")

	var booking models.Booking
	if err := config.DB.First(&booking, c.Param("id")).Error; err != nil {
		utils.LogError("Booking not found: %v", err)
		utils.NotFound(c, "Booking not found")
		return
	}

	if booking.Status == models.BookingStatusCompleted {
		utils.Success(c, "Booking already completed", gin.H{"booking_id": booking.ID})
		return
	}

	var req struct {
		ActualStartTime *time.Time `json:"actual_start_time"`
		ActualEndTime   *time.Time `json:"actual_end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updates := map[string]interface{}{"status": models.BookingStatusCompleted}
	if req.ActualStartTime != nil {
		updates["actual_start_time"] = req.ActualStartTime
	}
	if req.ActualEndTime != nil {
		updates["actual_end_time"] = req.ActualEndTime
	}
	if err := config.DB.Model(&booking).Updates(updates).Error; err != nil {
		utils.LogError("Failed to complete booking %d: %v", booking.ID, err)
		utils.InternalServerError(c, "Failed to update booking", err.Error())
		return
	}

	history, err := calculateReliabilityScore(config.DB, booking.WorkerID)
	if err != nil {
		utils.LogError("Score recalculation failed for worker %d: %v", booking.WorkerID, err)
		utils.InternalServerError(c, "Failed to recalculate reliability score", err.Error())
		return
	}

	response := gin.H{"booking_id": booking.ID}
	if history != nil {
		response["score"] = history.Score
	}
	utils.Success(c, "Booking completed and score recalculated", response)
}
