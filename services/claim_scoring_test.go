package services

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"contract-claims-api/models"
)

func claimAt(id, userID, hours int, amount string, statusID int, submitted time.Time) models.Claim {
	return models.Claim{
		ClaimID:         id,
		UserID:          userID,
		HoursWorked:     hours,
		TotalAmount:     decimal.RequireFromString(amount),
		SubmissionDate:  submitted,
		CurrentStatusID: statusID,
	}
}

func TestScoreClaimHoursBoundaries(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		hours int
		valid bool
	}{
		{0, false},
		{1, true},
		{200, true},
		{201, false},
	}

	for _, tc := range cases {
		claim := claimAt(1, 10, tc.hours, "3500.00", models.StatusSubmitted, submitted)
		score := ScoreClaim(claim, nil, nil)
		if score.HoursValid != tc.valid {
			t.Errorf("hours %d: HoursValid = %v, want %v", tc.hours, score.HoursValid, tc.valid)
		}
	}
}

func TestScoreClaimAmountReasonableBand(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	earlier := submitted.AddDate(0, -2, 0)

	siblings := []models.Claim{
		claimAt(2, 10, 100, "500.00", models.StatusPaid, earlier),
		claimAt(3, 10, 100, "1500.00", models.StatusPaid, earlier),
	}
	// mean is 1000, so anything within [500, 1500] passes

	inside := ScoreClaim(claimAt(1, 10, 100, "1500.00", models.StatusSubmitted, submitted), siblings, nil)
	if !inside.AmountReasonable {
		t.Errorf("amount at the band edge should be reasonable")
	}

	outside := ScoreClaim(claimAt(1, 10, 100, "1500.01", models.StatusSubmitted, submitted), siblings, nil)
	if outside.AmountReasonable {
		t.Errorf("amount past the band edge should be unreasonable")
	}
}

func TestScoreClaimFirstClaimDefaults(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	score := ScoreClaim(claimAt(1, 10, 120, "42000.00", models.StatusSubmitted, submitted), nil, nil)

	if !score.AmountReasonable {
		t.Errorf("first-ever claim should pass the amount check")
	}
	if score.PreviousClaimHistory != 0 {
		t.Errorf("PreviousClaimHistory = %d, want 0", score.PreviousClaimHistory)
	}
	if score.SubmissionPattern != 5 {
		t.Errorf("SubmissionPattern = %d, want 5", score.SubmissionPattern)
	}
}

func TestScoreClaimHistoryExcludesRejected(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	earlier := submitted.AddDate(0, -2, 0)

	siblings := []models.Claim{
		claimAt(2, 10, 100, "1000.00", models.StatusPaid, earlier),
		claimAt(3, 10, 100, "1000.00", models.StatusRejected, earlier),
		claimAt(4, 10, 100, "1000.00", models.StatusApprovedByManager, earlier),
	}

	score := ScoreClaim(claimAt(1, 10, 100, "1000.00", models.StatusSubmitted, submitted), siblings, nil)
	if score.PreviousClaimHistory != 2 {
		t.Errorf("PreviousClaimHistory = %d, want 2", score.PreviousClaimHistory)
	}
}

func TestScoreClaimSubmissionPatternTiers(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		gapDays int
		want    int
	}{
		{"too frequent", 10, 1},
		{"regular", 20, 3},
		{"well spaced", 40, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			siblings := []models.Claim{
				claimAt(2, 10, 100, "1000.00", models.StatusPaid, submitted.AddDate(0, 0, -tc.gapDays)),
			}
			score := ScoreClaim(claimAt(1, 10, 100, "1000.00", models.StatusSubmitted, submitted), siblings, nil)
			if score.SubmissionPattern != tc.want {
				t.Errorf("gap %d days: SubmissionPattern = %d, want %d", tc.gapDays, score.SubmissionPattern, tc.want)
			}
		})
	}
}

func TestScoreClaimSubmissionPatternIgnoresLaterClaims(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	// Only the sibling submitted before the claim counts as the predecessor.
	siblings := []models.Claim{
		claimAt(2, 10, 100, "1000.00", models.StatusSubmitted, submitted.AddDate(0, 0, 5)),
		claimAt(3, 10, 100, "1000.00", models.StatusPaid, submitted.AddDate(0, 0, -40)),
	}

	score := ScoreClaim(claimAt(1, 10, 100, "1000.00", models.StatusSubmitted, submitted), siblings, nil)
	if score.SubmissionPattern != 5 {
		t.Errorf("SubmissionPattern = %d, want 5", score.SubmissionPattern)
	}
}

func docsNamed(names ...string) []models.SupportingDocument {
	docs := make([]models.SupportingDocument, 0, len(names))
	for i, name := range names {
		docs = append(docs, models.SupportingDocument{
			DocumentID: i + 1,
			ClaimID:    1,
			FileName:   name,
		})
	}
	return docs
}

func TestAnalyzeDocumentQuality(t *testing.T) {
	cases := []struct {
		name string
		docs []models.SupportingDocument
		want int
	}{
		{"no documents", nil, 1},
		{"single generic file", docsNamed("a.txt"), 2},
		{"single screenshot", docsNamed("Screenshot 2026-03-01.png"), 3},
		{"single descriptive pdf", docsNamed("timesheet_march.pdf"), 4},
		{"full evidence set", docsNamed("timesheet_march.pdf", "hours_breakdown.xlsx", "attendance_register.jpg"), 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzeDocumentQuality(tc.docs)
			if got != tc.want {
				t.Errorf("quality = %d, want %d", got, tc.want)
			}
			if got < 1 || got > 10 {
				t.Errorf("quality %d outside [1,10]", got)
			}
		})
	}
}

func TestScoreClaimPerfectScore(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	earlier := submitted.AddDate(0, 0, -31)

	siblings := make([]models.Claim, 0, 5)
	for i := 0; i < 5; i++ {
		siblings = append(siblings,
			claimAt(10+i, 10, 160, "4000.00", models.StatusPaid, earlier.AddDate(0, -i, 0)))
	}
	docs := docsNamed("timesheet_march.pdf", "hours_breakdown.xlsx", "attendance_register.jpg")

	score := ScoreClaim(claimAt(1, 10, 160, "4000.00", models.StatusSubmitted, submitted), siblings, docs)

	if !score.OverallScore.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("OverallScore = %s, want 100", score.OverallScore)
	}
	if score.Priority != PriorityHigh {
		t.Errorf("Priority = %v, want High", score.Priority)
	}
	if score.Recommendation != RecommendAutoApprove {
		t.Errorf("Recommendation = %v, want Auto-Approve", score.Recommendation)
	}
}

func TestScoreClaimStaysInRange(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	hours := []int{0, 1, 100, 200, 250}
	amounts := []string{"0.00", "1000.00", "9999.99"}
	docSets := [][]models.SupportingDocument{
		nil,
		docsNamed("a.txt"),
		docsNamed("timesheet_march.pdf", "hours_breakdown.xlsx", "attendance_register.jpg", "contract.docx"),
	}
	siblingSets := [][]models.Claim{
		nil,
		{claimAt(2, 10, 100, "1000.00", models.StatusRejected, submitted.AddDate(0, 0, -5))},
		{
			claimAt(3, 10, 100, "1000.00", models.StatusPaid, submitted.AddDate(0, 0, -35)),
			claimAt(4, 10, 100, "3000.00", models.StatusPaid, submitted.AddDate(0, 0, -65)),
		},
	}

	for _, h := range hours {
		for _, a := range amounts {
			for _, docs := range docSets {
				for _, siblings := range siblingSets {
					score := ScoreClaim(claimAt(1, 10, h, a, models.StatusSubmitted, submitted), siblings, docs)
					if score.OverallScore.IsNegative() || score.OverallScore.GreaterThan(decimal.NewFromInt(100)) {
						t.Fatalf("OverallScore %s outside [0,100] for hours=%d amount=%s docs=%d siblings=%d",
							score.OverallScore, h, a, len(docs), len(siblings))
					}
					if score.DocumentQuality < 1 || score.DocumentQuality > 10 {
						t.Fatalf("DocumentQuality %d outside [1,10]", score.DocumentQuality)
					}
				}
			}
		}
	}
}

func TestScoreClaimIsDeterministic(t *testing.T) {
	submitted := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	siblings := []models.Claim{
		claimAt(2, 10, 100, "1000.00", models.StatusPaid, submitted.AddDate(0, 0, -20)),
	}
	docs := docsNamed("timesheet_march.pdf")
	claim := claimAt(1, 10, 100, "1200.00", models.StatusSubmitted, submitted)

	first := ScoreClaim(claim, siblings, docs)
	second := ScoreClaim(claim, siblings, docs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different scores:\n%+v\n%+v", first, second)
	}
}

func TestRecommendationBandsAreMonotonic(t *testing.T) {
	previous := RecommendInvestigate
	for s := int64(0); s <= 100; s++ {
		rec := RecommendationForScore(decimal.NewFromInt(s))
		if rec < previous {
			t.Fatalf("recommendation regressed at score %d: %v after %v", s, rec, previous)
		}
		previous = rec
	}

	bands := []struct {
		score int64
		want  Recommendation
	}{
		{100, RecommendAutoApprove},
		{85, RecommendAutoApprove},
		{84, RecommendApprove},
		{70, RecommendApprove},
		{69, RecommendReview},
		{50, RecommendReview},
		{49, RecommendDetailedReview},
		{30, RecommendDetailedReview},
		{29, RecommendInvestigate},
		{0, RecommendInvestigate},
	}
	for _, tc := range bands {
		if got := RecommendationForScore(decimal.NewFromInt(tc.score)); got != tc.want {
			t.Errorf("score %d: recommendation = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestPriorityBands(t *testing.T) {
	cases := []struct {
		score int64
		want  Priority
	}{
		{100, PriorityHigh},
		{80, PriorityHigh},
		{79, PriorityMedium},
		{60, PriorityMedium},
		{59, PriorityLow},
		{0, PriorityLow},
	}
	for _, tc := range cases {
		if got := PriorityForScore(decimal.NewFromInt(tc.score)); got != tc.want {
			t.Errorf("score %d: priority = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestScoreLabelsMarshalAsText(t *testing.T) {
	data, err := json.Marshal(struct {
		Priority       Priority       `json:"priority"`
		Recommendation Recommendation `json:"recommendation"`
	}{PriorityHigh, RecommendDetailedReview})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"priority":"High","recommendation":"Detailed Review"}`
	if string(data) != want {
		t.Errorf("marshalled %s, want %s", data, want)
	}
}

func TestPriorityScoreBoostsUrgentClaims(t *testing.T) {
	base := ClaimScore{
		OverallScore:      decimal.NewFromInt(85),
		Priority:          PriorityHigh,
		AmountReasonable:  true,
		HasSupportingDocs: true,
	}
	if got := priorityScore(base); got != 105 {
		t.Errorf("priorityScore = %d, want 105", got)
	}

	flagged := ClaimScore{
		OverallScore: decimal.NewFromInt(20),
		Priority:     PriorityLow,
	}
	// 20 - 15 (no docs) - 10 (unreasonable amount), floored at 0
	if got := priorityScore(flagged); got != 0 {
		t.Errorf("priorityScore = %d, want 0", got)
	}
}
