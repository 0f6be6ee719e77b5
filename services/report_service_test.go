package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"contract-claims-api/models"
)

func reportClaim(id int, first, last string, hours int, rate, amount string, submitted time.Time) models.Claim {
	return models.Claim{
		ClaimID:        id,
		HoursWorked:    hours,
		TotalAmount:    decimal.RequireFromString(amount),
		SubmissionDate: submitted,
		User: models.User{
			FirstName:  first,
			LastName:   last,
			HourlyRate: decimal.RequireFromString(rate),
		},
	}
}

func TestRenderInvoiceBatch(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	claims := []models.Claim{
		reportClaim(1, "John", "Smith", 160, "350.00", "56000.00", now.AddDate(0, 0, -1)),
		reportClaim(2, "Jane", "Doe", 80, "400.00", "32000.00", now.AddDate(0, 0, -2)),
	}

	text := string(RenderInvoiceBatch(claims, now))

	for _, want := range []string{
		"INVOICE BATCH - 2026-04-01",
		"Claim ID: 1",
		"Lecturer: John Smith",
		"Hours: 160 @ R350.00/hr",
		"Total: R56000.00",
		"Lecturer: Jane Doe",
		"TOTAL BATCH AMOUNT: R88000.00",
		"TOTAL CLAIMS: 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("invoice batch missing %q:\n%s", want, text)
		}
	}
}

func TestRenderInvoiceBatchEmpty(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	text := string(RenderInvoiceBatch(nil, now))

	if !strings.Contains(text, "TOTAL BATCH AMOUNT: R0.00") {
		t.Errorf("empty batch should total zero:\n%s", text)
	}
	if !strings.Contains(text, "TOTAL CLAIMS: 0") {
		t.Errorf("empty batch should count zero claims:\n%s", text)
	}
}

func TestRenderPaymentReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	claims := []models.Claim{
		reportClaim(1, "John", "Smith", 160, "350.00", "56000.00", start.AddDate(0, 0, 10)),
	}

	text := string(RenderPaymentReport(claims, start, end))

	for _, want := range []string{
		"PAYMENT REPORT: 2026-03-01 to 2026-03-31",
		"John Smith: R56000.00 (160 hours)",
		"TOTAL PAID: R56000.00",
		"TOTAL CLAIMS: 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("payment report missing %q:\n%s", want, text)
		}
	}
}
