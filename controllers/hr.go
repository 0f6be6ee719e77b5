package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contract-claims-api/config"
	"contract-claims-api/models"
	"contract-claims-api/services"
)

// GetHRDashboard returns the payment queue, current-month summary, payment
// batch candidate and confidence scores for the pending claims.
func GetHRDashboard(c *gin.Context) {
	var pendingPayment []models.Claim
	if err := config.DB.Preload("User").Preload("CurrentStatus").
		Where("current_status_id = ?", models.StatusApprovedByManager).
		Order("submission_date DESC").
		Find(&pendingPayment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	reports := services.NewReportService(getDB())
	summary, err := reports.GenerateMonthlySummary(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build monthly summary"})
		return
	}

	batch, err := reports.GeneratePaymentBatch()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build payment batch"})
		return
	}

	scoring := services.NewClaimScoringService(getDB())
	scores := make([]services.ClaimScore, 0, len(pendingPayment))
	for i := range pendingPayment {
		score, err := scoring.CalculateClaimScore(&pendingPayment[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score claims"})
			return
		}
		scores = append(scores, score)
	}

	var lecturers []models.User
	if err := config.DB.Where("role_id = ? AND delete_at IS NULL", models.RoleLecturer).
		Order("last_name").
		Find(&lecturers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lecturers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_payment_claims": pendingPayment,
		"monthly_summary":        summary,
		"payment_batch":          batch,
		"claim_scores":           scores,
		"lecturers":              lecturers,
	})
}

// ProcessPayments marks the selected manager-approved claims as paid. All
// transitions commit together; notifications go out afterwards.
func ProcessPayments(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	type PaymentRequest struct {
		ClaimIDs []int `json:"claim_ids" binding:"required,min=1"`
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var claims []models.Claim
	total := decimal.Zero
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("claim_id IN ? AND current_status_id = ?",
			req.ClaimIDs, models.StatusApprovedByManager).
			Find(&claims).Error; err != nil {
			return err
		}

		for i := range claims {
			if err := services.TransitionClaim(tx, &claims[i], models.StatusPaid, userID,
				"Processed for payment by HR"); err != nil {
				return err
			}
			total = total.Add(claims[i].TotalAmount)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payments"})
		return
	}

	notifier := services.NewNotificationService(config.DB)
	for i := range claims {
		notifier.NotifyClaimAction(&claims[i], "processed for payment")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Successfully processed %d claims for payment", len(claims)),
		"total_amount": total,
	})
}

// GenerateInvoices renders a text invoice batch for the selected claims.
func GenerateInvoices(c *gin.Context) {
	type InvoiceRequest struct {
		ClaimIDs []int `json:"claim_ids" binding:"required,min=1"`
	}
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports := services.NewReportService(getDB())
	invoices, err := reports.GenerateInvoices(req.ClaimIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoices"})
		return
	}

	filename := fmt.Sprintf("invoices_%s.txt", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", invoices)
}

// GeneratePaymentReport renders the paid claims for a date range.
func GeneratePaymentReport(c *gin.Context) {
	startDate, endDate, ok := bindDateRange(c)
	if !ok {
		return
	}

	reports := services.NewReportService(getDB())
	report, err := reports.GeneratePaymentReport(startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	filename := fmt.Sprintf("payment_report_%s_to_%s.txt",
		startDate.Format("20060102"), endDate.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}

// GenerateComprehensiveReport renders the full period report as text or CSV.
func GenerateComprehensiveReport(c *gin.Context) {
	startDate, endDate, ok := bindDateRange(c)
	if !ok {
		return
	}

	params := services.ReportParameters{
		StartDate: startDate,
		EndDate:   endDate,
		Format:    c.Query("format"),
	}

	reports := services.NewReportService(getDB())
	content, contentType, err := reports.GenerateComprehensiveReport(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	ext := "txt"
	if contentType == "text/csv" {
		ext = "csv"
	}
	filename := fmt.Sprintf("comprehensive_report_%s.%s", time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, content)
}

// GetLecturers lists lecturers with their current hourly rates.
func GetLecturers(c *gin.Context) {
	var lecturers []models.User
	if err := config.DB.Where("role_id = ? AND delete_at IS NULL", models.RoleLecturer).
		Order("last_name").
		Find(&lecturers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load lecturers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lecturers": lecturers})
}

// UpdateLecturerRate sets a lecturer's hourly rate. Past claims keep the
// amount they were submitted with.
func UpdateLecturerRate(c *gin.Context) {
	type RateRequest struct {
		UserID     int             `json:"user_id" binding:"required"`
		HourlyRate decimal.Decimal `json:"hourly_rate" binding:"required"`
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.HourlyRate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hourly rate cannot be negative"})
		return
	}

	var lecturer models.User
	if err := config.DB.Where("user_id = ? AND role_id = ? AND delete_at IS NULL",
		req.UserID, models.RoleLecturer).
		First(&lecturer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lecturer not found"})
		return
	}

	now := time.Now()
	lecturer.HourlyRate = req.HourlyRate
	lecturer.UpdateAt = &now
	if err := config.DB.Save(&lecturer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Hourly rate updated to R%s for %s", req.HourlyRate.StringFixed(2), lecturer.FullName()),
		"lecturer": lecturer,
	})
}

// bindDateRange parses start_date/end_date query params (YYYY-MM-DD). The end
// date is inclusive, extended to the end of its day.
func bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startDate, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	endDate, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not be before start_date"})
		return time.Time{}, time.Time{}, false
	}
	return startDate, endDate.Add(24*time.Hour - time.Second), true
}
