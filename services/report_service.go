package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contract-claims-api/models"
)

// ReportService generates the HR-facing summaries and text reports. All money
// figures come straight from the stored claim amounts; nothing is recomputed
// from rates.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// MonthlySummary aggregates the calendar month containing now.
type MonthlySummary struct {
	TotalClaims    int             `json:"total_claims"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedClaims int             `json:"approved_claims"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	PaidClaims     int             `json:"paid_claims"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
}

// PaymentBatch is the current set of manager-approved claims awaiting payment.
type PaymentBatch struct {
	BatchID     int             `json:"batch_id"`
	CreatedDate time.Time       `json:"created_date"`
	ClaimCount  int             `json:"claim_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Claims      []models.Claim  `json:"claims"`
}

// ReportParameters selects the period and output format for the
// comprehensive report.
type ReportParameters struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Format    string    `json:"format"` // "CSV" or "Text"
}

// GenerateMonthlySummary totals the current month's claims by status.
func (s *ReportService) GenerateMonthlySummary(now time.Time) (MonthlySummary, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	var claims []models.Claim
	if err := s.db.Where("submission_date >= ? AND submission_date < ?", start, end).
		Find(&claims).Error; err != nil {
		return MonthlySummary{}, fmt.Errorf("failed to load monthly claims: %w", err)
	}

	summary := MonthlySummary{
		TotalAmount:    decimal.Zero,
		ApprovedAmount: decimal.Zero,
		PaidAmount:     decimal.Zero,
	}
	for _, claim := range claims {
		summary.TotalClaims++
		summary.TotalAmount = summary.TotalAmount.Add(claim.TotalAmount)
		switch claim.CurrentStatusID {
		case models.StatusApprovedByManager:
			summary.ApprovedClaims++
			summary.ApprovedAmount = summary.ApprovedAmount.Add(claim.TotalAmount)
		case models.StatusPaid:
			summary.PaidClaims++
			summary.PaidAmount = summary.PaidAmount.Add(claim.TotalAmount)
		}
	}

	return summary, nil
}

// GeneratePaymentBatch collects every manager-approved claim into a batch
// candidate for HR.
func (s *ReportService) GeneratePaymentBatch() (PaymentBatch, error) {
	var claims []models.Claim
	if err := s.db.Preload("User").Preload("CurrentStatus").
		Where("current_status_id = ?", models.StatusApprovedByManager).
		Find(&claims).Error; err != nil {
		return PaymentBatch{}, fmt.Errorf("failed to load approved claims: %w", err)
	}

	total := decimal.Zero
	for _, claim := range claims {
		total = total.Add(claim.TotalAmount)
	}

	return PaymentBatch{
		BatchID:     1000 + rand.Intn(9000),
		CreatedDate: time.Now(),
		ClaimCount:  len(claims),
		TotalAmount: total,
		Claims:      claims,
	}, nil
}

// GenerateInvoices renders a plain-text invoice batch for the given claims.
func (s *ReportService) GenerateInvoices(claimIDs []int) ([]byte, error) {
	var claims []models.Claim
	if err := s.db.Preload("User").
		Where("claim_id IN ?", claimIDs).
		Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("failed to load claims for invoicing: %w", err)
	}
	return RenderInvoiceBatch(claims, time.Now()), nil
}

// RenderInvoiceBatch formats the invoice text for a set of claims.
func RenderInvoiceBatch(claims []models.Claim, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE BATCH - %s\n\n", now.Format("2006-01-02"))
	b.WriteString("==========================================\n\n")

	total := decimal.Zero
	for _, claim := range claims {
		fmt.Fprintf(&b, "Claim ID: %d\n", claim.ClaimID)
		fmt.Fprintf(&b, "Lecturer: %s\n", claim.User.FullName())
		fmt.Fprintf(&b, "Hours: %d @ R%s/hr\n", claim.HoursWorked, claim.User.HourlyRate.StringFixed(2))
		fmt.Fprintf(&b, "Total: R%s\n", claim.TotalAmount.StringFixed(2))
		fmt.Fprintf(&b, "Submission Date: %s\n", claim.SubmissionDate.Format("2006-01-02"))
		b.WriteString("------------------------------------------\n\n")
		total = total.Add(claim.TotalAmount)
	}

	fmt.Fprintf(&b, "TOTAL BATCH AMOUNT: R%s\n", total.StringFixed(2))
	fmt.Fprintf(&b, "TOTAL CLAIMS: %d\n", len(claims))
	return []byte(b.String())
}

// GeneratePaymentReport renders the paid claims for a date range.
func (s *ReportService) GeneratePaymentReport(startDate, endDate time.Time) ([]byte, error) {
	var claims []models.Claim
	if err := s.db.Preload("User").
		Where("current_status_id = ? AND submission_date >= ? AND submission_date <= ?",
			models.StatusPaid, startDate, endDate).
		Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("failed to load paid claims: %w", err)
	}
	return RenderPaymentReport(claims, startDate, endDate), nil
}

// RenderPaymentReport formats the payment report text.
func RenderPaymentReport(claims []models.Claim, startDate, endDate time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "PAYMENT REPORT: %s to %s\n\n",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	b.WriteString("==========================================\n\n")

	total := decimal.Zero
	for _, claim := range claims {
		fmt.Fprintf(&b, "%s: R%s (%d hours)\n",
			claim.User.FullName(), claim.TotalAmount.StringFixed(2), claim.HoursWorked)
		total = total.Add(claim.TotalAmount)
	}

	fmt.Fprintf(&b, "\nTOTAL PAID: R%s\n", total.StringFixed(2))
	fmt.Fprintf(&b, "TOTAL CLAIMS: %d\n", len(claims))
	return []byte(b.String())
}

type statusBreakdownRow struct {
	Status string
	Count  int
	Amount decimal.Decimal
}

type lecturerTotalRow struct {
	Lecturer string
	Claims   int
	Amount   decimal.Decimal
}

// GenerateComprehensiveReport builds the period report: claim totals, status
// breakdown, per-lecturer totals and average processing time. Returns the
// rendered bytes plus the content type to serve them with.
func (s *ReportService) GenerateComprehensiveReport(params ReportParameters) ([]byte, string, error) {
	var claims []models.Claim
	if err := s.db.Preload("User").Preload("CurrentStatus").
		Where("submission_date >= ? AND submission_date <= ?", params.StartDate, params.EndDate).
		Find(&claims).Error; err != nil {
		return nil, "", fmt.Errorf("failed to load claims for report: %w", err)
	}

	avgHours, err := s.averageProcessingHours(params.StartDate, params.EndDate)
	if err != nil {
		return nil, "", err
	}

	byStatus := map[string]*statusBreakdownRow{}
	byLecturer := map[string]*lecturerTotalRow{}
	total := decimal.Zero
	for _, claim := range claims {
		total = total.Add(claim.TotalAmount)

		statusName := claim.CurrentStatus.StatusName
		if statusName == "" {
			statusName = StatusName(claim.CurrentStatusID)
		}
		sRow, ok := byStatus[statusName]
		if !ok {
			sRow = &statusBreakdownRow{Status: statusName, Amount: decimal.Zero}
			byStatus[statusName] = sRow
		}
		sRow.Count++
		sRow.Amount = sRow.Amount.Add(claim.TotalAmount)

		name := claim.User.FullName()
		lRow, ok := byLecturer[name]
		if !ok {
			lRow = &lecturerTotalRow{Lecturer: name, Amount: decimal.Zero}
			byLecturer[name] = lRow
		}
		lRow.Claims++
		lRow.Amount = lRow.Amount.Add(claim.TotalAmount)
	}

	statusRows := make([]statusBreakdownRow, 0, len(byStatus))
	for _, row := range byStatus {
		statusRows = append(statusRows, *row)
	}
	sort.Slice(statusRows, func(i, j int) bool { return statusRows[i].Status < statusRows[j].Status })

	lecturerRows := make([]lecturerTotalRow, 0, len(byLecturer))
	for _, row := range byLecturer {
		lecturerRows = append(lecturerRows, *row)
	}
	sort.Slice(lecturerRows, func(i, j int) bool {
		return lecturerRows[i].Amount.GreaterThan(lecturerRows[j].Amount)
	})

	if strings.EqualFold(params.Format, "CSV") {
		return renderComprehensiveCSV(claims), "text/csv", nil
	}
	return renderComprehensiveText(params, len(claims), total, avgHours, statusRows, lecturerRows),
		"text/plain; charset=utf-8", nil
}

// averageProcessingHours measures submission-to-decision time for claims that
// reached a manager decision in the period.
func (s *ReportService) averageProcessingHours(startDate, endDate time.Time) (float64, error) {
	var claims []models.Claim
	if err := s.db.Preload("StatusHistory").
		Where("submission_date >= ? AND submission_date <= ? AND current_status_id IN ?",
			startDate, endDate, []int{models.StatusApprovedByManager, models.StatusRejected}).
		Find(&claims).Error; err != nil {
		return 0, fmt.Errorf("failed to load completed claims: %w", err)
	}
	if len(claims) == 0 {
		return 0, nil
	}

	var totalHours float64
	for _, claim := range claims {
		completion := claim.SubmissionDate
		for _, entry := range claim.StatusHistory {
			if entry.StatusID != models.StatusApprovedByManager && entry.StatusID != models.StatusRejected {
				continue
			}
			if entry.ChangeDate.After(completion) {
				completion = entry.ChangeDate
			}
		}
		totalHours += completion.Sub(claim.SubmissionDate).Hours()
	}

	return totalHours / float64(len(claims)), nil
}

func renderComprehensiveText(params ReportParameters, totalClaims int, totalAmount decimal.Decimal,
	avgHours float64, statusRows []statusBreakdownRow, lecturerRows []lecturerTotalRow) []byte {

	var b strings.Builder
	b.WriteString("COMPREHENSIVE CLAIMS REPORT\n")
	fmt.Fprintf(&b, "Period: %s to %s\n",
		params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "TOTAL CLAIMS: %d\n", totalClaims)
	fmt.Fprintf(&b, "TOTAL AMOUNT: R %s\n", totalAmount.StringFixed(2))
	fmt.Fprintf(&b, "AVG PROCESSING TIME: %.1f hours\n\n", avgHours)

	b.WriteString("STATUS BREAKDOWN:\n")
	for _, row := range statusRows {
		fmt.Fprintf(&b, "- %s: %d claims (R %s)\n", row.Status, row.Count, row.Amount.StringFixed(2))
	}

	b.WriteString("\nLECTURER PERFORMANCE:\n")
	for _, row := range lecturerRows {
		fmt.Fprintf(&b, "- %s: %d claims (R %s)\n", row.Lecturer, row.Claims, row.Amount.StringFixed(2))
	}

	return []byte(b.String())
}

func renderComprehensiveCSV(claims []models.Claim) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"claim_id", "lecturer", "hours_worked", "total_amount", "status", "submission_date"})
	for _, claim := range claims {
		_ = w.Write([]string{
			fmt.Sprintf("%d", claim.ClaimID),
			claim.User.FullName(),
			fmt.Sprintf("%d", claim.HoursWorked),
			claim.TotalAmount.StringFixed(2),
			claim.CurrentStatus.StatusName,
			claim.SubmissionDate.Format("2006-01-02"),
		})
	}
	w.Flush()
	return buf.Bytes()
}
