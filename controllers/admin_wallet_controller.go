package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kerjalink/kerjapay/config"
	"github.com/kerjalink/kerjapay/models"
	"github.com/kerjalink/kerjapay/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminListPayouts returns payout requests across all workers for review
func AdminListPayouts(c *gin.Context) {
	utils.LogInfo("AdminListPayouts called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.PayoutRequest{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payout requests: %v", err)
		utils.InternalServerError(c, "Failed to count payout requests", err.Error())
		return
	}

	var payouts []models.PayoutRequest
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payouts).Error; err != nil {
		utils.LogError("Failed to fetch payout requests: %v", err)
		utils.InternalServerError(c, "Failed to fetch payout requests", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Payout requests retrieved successfully", payouts, total, page, limit)
}

// AdminExportWalletTransactions downloads the ledger for a period as Excel
func AdminExportWalletTransactions(c *gin.Context) {
	utils.LogInfo("AdminExportWalletTransactions called")

	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var transactions []models.WalletTransaction
	if err := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("Wallet").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch wallet transactions", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d ledger entries for Excel export", len(transactions))

	var totalCredits, totalDebits int64
	for _, transaction := range transactions {
		if transaction.Amount >= 0 {
			totalCredits += transaction.Amount
		} else {
			totalDebits += -transaction.Amount
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Wallet Ledger")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"ID", "Wallet ID", "Owner", "Type", "Status", "Amount", "Reference", "Description", "Created At"} {
		header.AddCell().SetString(title)
	}

	for _, transaction := range transactions {
		row := sheet.AddRow()
		row.AddCell().SetInt64(int64(transaction.ID))
		row.AddCell().SetInt64(int64(transaction.WalletID))
		row.AddCell().SetString(fmt.Sprintf("%s %d", transaction.Wallet.OwnerType, transaction.Wallet.OwnerID))
		row.AddCell().SetString(transaction.Type)
		row.AddCell().SetString(transaction.Status)
		row.AddCell().SetInt64(transaction.Amount)
		row.AddCell().SetString(transaction.Reference)
		row.AddCell().SetString(transaction.Description)
		row.AddCell().SetString(transaction.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	summary := sheet.AddRow()
	summary.AddCell().SetString("Totals")
	summary.AddCell().SetString("")
	summary.AddCell().SetString("")
	summary.AddCell().SetString("Credits")
	summary.AddCell().SetString(utils.FormatIDR(totalCredits))
	summary.AddCell().SetString("Debits")
	summary.AddCell().SetString(utils.FormatIDR(totalDebits))

	filename := fmt.Sprintf("wallet-ledger-%s-%s.xlsx", period, now.Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Exported %d ledger entries for period %s", len(transactions), period)
}
