package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func createScoredWorker(t *testing.T) *models.Worker {
	t.Helper()
	worker := &models.Worker{
		FullName: "Siti Rahma",
		Email:    fmt.Sprintf("siti_%d@example.com", time.Now().UnixNano()),
		IsActive: true,
	}
	if err := config.DB.Create(worker).Error; err != nil {
		t.Fatalf("create worker failed: %v", err)
	}
	return worker
}

func createBooking(t *testing.T, db *gorm.DB, workerID uint, status string, startDate time.Time, actualStart *time.Time) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		WorkerID:        workerID,
		MerchantID:      1,
		Status:          status,
		StartDate:       startDate,
		ActualStartTime: actualStart,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	return booking
}

func createReview(t *testing.T, db *gorm.DB, workerID uint, rating int) {
	t.Helper()
	if err := db.Create(&models.Review{WorkerID: workerID, MerchantID: 1, Rating: rating}).Error; err != nil {
		t.Fatalf("create review failed: %v", err)
	}
}

func TestScoreWeightedFormula(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)

	// 8 of 10 completed, all started on time, reviews averaging 4.5:
	// 5 * (0.8*0.4 + 1.0*0.3 + 0.9*0.3) = 4.45, rounded to 4.5
	scheduled := time.Now().Add(-24 * time.Hour)
	onTime := scheduled.Add(-5 * time.Minute)
	for i := 0; i < 8; i++ {
		createBooking(t, db, worker.ID, models.BookingStatusCompleted, scheduled, &onTime)
	}
	createBooking(t, db, worker.ID, models.BookingStatusCancelled, scheduled, nil)
	createBooking(t, db, worker.ID, models.BookingStatusNoShow, scheduled, nil)
	createReview(t, db, worker.ID, 4)
	createReview(t, db, worker.ID, 5)

	history, err := calculateReliabilityScore(db, worker.ID)
	if err != nil {
		t.Fatalf("calculateReliabilityScore failed: %v", err)
	}
	if history == nil {
		t.Fatal("expected a history row for a worker with bookings")
	}
	if history.Score != 4.5 {
		t.Fatalf("score want 4.5 got %v", history.Score)
	}
	if history.AttendanceRate != 0.8 {
		t.Fatalf("attendance rate want 0.8 got %v", history.AttendanceRate)
	}
	if history.PunctualityRate != 1.0 {
		t.Fatalf("punctuality rate want 1.0 got %v", history.PunctualityRate)
	}
	if history.AvgRating != 4.5 {
		t.Fatalf("avg rating want 4.5 got %v", history.AvgRating)
	}
	if history.CompletedJobsCount != 8 {
		t.Fatalf("completed jobs want 8 got %d", history.CompletedJobsCount)
	}

	var reloaded models.Worker
	if err := db.First(&reloaded, worker.ID).Error; err != nil {
		t.Fatalf("reload worker failed: %v", err)
	}
	if reloaded.ReliabilityScore == nil || *reloaded.ReliabilityScore != 4.5 {
		t.Fatalf("worker score mirror not updated: %+v", reloaded.ReliabilityScore)
	}
}

func TestScoreClampedToLowerBound(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)

	// 1 of 10 completed, started late, rated 1:
	// 5 * (0.1*0.4 + 0*0.3 + 0.2*0.3) = 0.5, clamped to 1.0
	scheduled := time.Now().Add(-24 * time.Hour)
	late := scheduled.Add(2 * time.Hour)
	createBooking(t, db, worker.ID, models.BookingStatusCompleted, scheduled, &late)
	for i := 0; i < 9; i++ {
		createBooking(t, db, worker.ID, models.BookingStatusNoShow, scheduled, nil)
	}
	createReview(t, db, worker.ID, 1)

	history, err := calculateReliabilityScore(db, worker.ID)
	if err != nil {
		t.Fatalf("calculateReliabilityScore failed: %v", err)
	}
	if history.Score != 1.0 {
		t.Fatalf("score want 1.0 got %v", history.Score)
	}
}

func TestScoreNoBookingsIsNotPersisted(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)

	history, err := calculateReliabilityScore(db, worker.ID)
	if err != nil {
		t.Fatalf("calculateReliabilityScore failed: %v", err)
	}
	if history != nil {
		t.Fatalf("worker with no bookings must not get a history row, got %+v", history)
	}

	var count int64
	if err := db.Model(&models.ReliabilityScoreHistory{}).Where("worker_id = ?", worker.ID).Count(&count).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("history rows want 0 got %d", count)
	}
}

func TestScoreNoCompletedBookings(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)

	createBooking(t, db, worker.ID, models.BookingStatusCancelled, time.Now(), nil)
	createBooking(t, db, worker.ID, models.BookingStatusNoShow, time.Now(), nil)

	history, err := calculateReliabilityScore(db, worker.ID)
	if err != nil {
		t.Fatalf("calculateReliabilityScore failed: %v", err)
	}
	if history == nil || history.Score != 2.5 {
		t.Fatalf("worker with only failed bookings want score 2.5 got %+v", history)
	}
}

func TestScoreDefaultRatingWithoutReviews(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)

	// All completed, no timestamps, no reviews:
	// 5 * (1.0*0.4 + 1.0*0.3 + 0.8*0.3) = 4.7
	for i := 0; i < 3; i++ {
		createBooking(t, db, worker.ID, models.BookingStatusCompleted, time.Now().Add(-time.Hour), nil)
	}

	history, err := calculateReliabilityScore(db, worker.ID)
	if err != nil {
		t.Fatalf("calculateReliabilityScore failed: %v", err)
	}
	if history.Score != 4.7 {
		t.Fatalf("score want 4.7 got %v", history.Score)
	}
	if history.AvgRating != 4.0 {
		t.Fatalf("avg rating default want 4.0 got %v", history.AvgRating)
	}
}

func TestScoreHistoryIsAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)
	createBooking(t, db, worker.ID, models.BookingStatusCompleted, time.Now().Add(-time.Hour), nil)

	if _, err := calculateReliabilityScore(db, worker.ID); err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	createBooking(t, db, worker.ID, models.BookingStatusNoShow, time.Now(), nil)
	if _, err := calculateReliabilityScore(db, worker.ID); err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.ReliabilityScoreHistory{}).Where("worker_id = ?", worker.ID).Count(&count).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("history rows want 2 got %d", count)
	}
}

func TestGetWorkerReliabilityDefaultsWithoutHistory(t *testing.T) {
	setupTestDB(t)
	worker := createScoredWorker(t)

	router := gin.New()
	router.GET("/v1/workers/:id/reliability", GetWorkerReliability)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/workers/%d/reliability", worker.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"score":3`) || !strings.Contains(body, `"is_default":true`) {
		t.Fatalf("expected default score payload, got %s", body)
	}
}

func TestCompleteBookingTriggersRecalculation(t *testing.T) {
	db := setupTestDB(t)
	worker := createScoredWorker(t)
	booking := createBooking(t, db, worker.ID, models.BookingStatusScheduled, time.Now().Add(-time.Hour), nil)

	router := gin.New()
	router.POST("/internal/bookings/:id/complete", CompleteBooking)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/internal/bookings/%d/complete", booking.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, booking.ID).Error; err != nil {
		t.Fatalf("reload booking failed: %v", err)
	}
	if reloaded.Status != models.BookingStatusCompleted {
		t.Fatalf("booking status want completed got %s", reloaded.Status)
	}

	// Completing again is a no-op and does not append another history row
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/internal/bookings/%d/complete", booking.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat status want 200 got %d", w.Code)
	}

	var count int64
	if err := db.Model(&models.ReliabilityScoreHistory{}).Where("worker_id = ?", worker.ID).Count(&count).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("history rows want 1 got %d", count)
	}
}
