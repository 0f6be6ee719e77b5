package services

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contract-claims-api/models"
)

// Priority buckets a scored claim for reviewer attention.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Recommendation is the suggested handling for a scored claim. Values are
// ordered worst to best so consumers can compare them directly.
type Recommendation int

const (
	RecommendInvestigate Recommendation = iota
	RecommendDetailedReview
	RecommendReview
	RecommendApprove
	RecommendAutoApprove
)

func (r Recommendation) String() string {
	switch r {
	case RecommendAutoApprove:
		return "Auto-Approve"
	case RecommendApprove:
		return "Approve"
	case RecommendReview:
		return "Review"
	case RecommendDetailedReview:
		return "Detailed Review"
	default:
		return "Investigate"
	}
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Score bands are evaluated top-down; the first band whose floor the overall
// score reaches wins.
var priorityBands = []struct {
	floor    int64
	priority Priority
}{
	{80, PriorityHigh},
	{60, PriorityMedium},
	{0, PriorityLow},
}

var recommendationBands = []struct {
	floor          int64
	recommendation Recommendation
}{
	{85, RecommendAutoApprove},
	{70, RecommendApprove},
	{50, RecommendReview},
	{30, RecommendDetailedReview},
	{0, RecommendInvestigate},
}

// PriorityForScore maps an overall score to its priority band.
func PriorityForScore(score decimal.Decimal) Priority {
	for _, band := range priorityBands {
		if score.GreaterThanOrEqual(decimal.NewFromInt(band.floor)) {
			return band.priority
		}
	}
	return PriorityLow
}

// RecommendationForScore maps an overall score to its recommendation band.
func RecommendationForScore(score decimal.Decimal) Recommendation {
	for _, band := range recommendationBands {
		if score.GreaterThanOrEqual(decimal.NewFromInt(band.floor)) {
			return band.recommendation
		}
	}
	return RecommendInvestigate
}

// ClaimScore is the per-claim confidence snapshot. It is recomputed on demand
// and never persisted.
type ClaimScore struct {
	ClaimID              int             `json:"claim_id"`
	HoursWorked          int             `json:"hours_worked"`
	HoursValid           bool            `json:"hours_valid"`
	AmountReasonable     bool            `json:"amount_reasonable"`
	HasSupportingDocs    bool            `json:"has_supporting_docs"`
	PreviousClaimHistory int             `json:"previous_claim_history"`
	SubmissionPattern    int             `json:"submission_pattern"`
	DocumentQuality      int             `json:"document_quality"`
	OverallScore         decimal.Decimal `json:"overall_score"`
	Priority             Priority        `json:"priority"`
	Recommendation       Recommendation  `json:"recommendation"`
}

// ScoreClaim computes the confidence score for claim from the caller-supplied
// inputs: siblings are the same user's other claims, documents the claim's
// attached files. The function is pure so tests can inject both sets.
func ScoreClaim(claim models.Claim, siblings []models.Claim, documents []models.SupportingDocument) ClaimScore {
	score := ClaimScore{
		ClaimID:              claim.ClaimID,
		HoursWorked:          claim.HoursWorked,
		HoursValid:           claim.HoursWorked >= 1 && claim.HoursWorked <= 200,
		AmountReasonable:     isAmountReasonable(claim, siblings),
		HasSupportingDocs:    len(documents) > 0,
		PreviousClaimHistory: countPreviousClaims(siblings),
		SubmissionPattern:    analyzeSubmissionPattern(claim, siblings),
		DocumentQuality:      analyzeDocumentQuality(documents),
	}

	score.OverallScore = overallScore(score)
	score.Priority = PriorityForScore(score.OverallScore)
	score.Recommendation = RecommendationForScore(score.OverallScore)

	return score
}

// isAmountReasonable checks the claim amount against the mean of the user's
// other claims: first-ever claims pass by default, and a zero mean passes to
// keep the deviation total. The 50% band is evaluated in multiplied form
// (|amount-mean| <= 0.5*mean) so the boundary stays exact.
func isAmountReasonable(claim models.Claim, siblings []models.Claim) bool {
	if len(siblings) == 0 {
		return true
	}

	sum := decimal.Zero
	for _, c := range siblings {
		sum = sum.Add(c.TotalAmount)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(siblings))))
	if mean.IsZero() {
		return true
	}

	deviation := claim.TotalAmount.Sub(mean).Abs()
	return deviation.LessThanOrEqual(mean.Mul(decimal.NewFromFloat(0.5)))
}

func countPreviousClaims(siblings []models.Claim) int {
	count := 0
	for _, c := range siblings {
		if c.CurrentStatusID != models.StatusRejected {
			count++
		}
	}
	return count
}

// analyzeSubmissionPattern rates the gap to the user's immediately preceding
// submission: 1 = too frequent (<15 days), 3 = regular (<30), 5 = well spaced.
// A first-ever submission gets the neutral 5.
func analyzeSubmissionPattern(claim models.Claim, siblings []models.Claim) int {
	var previous *time.Time
	for _, c := range siblings {
		d := c.SubmissionDate
		if d.After(claim.SubmissionDate) {
			continue
		}
		if previous == nil || d.After(*previous) {
			previous = &d
		}
	}
	if previous == nil {
		return 5
	}

	days := int(claim.SubmissionDate.Sub(*previous).Hours() / 24)
	switch {
	case days < 15:
		return 1
	case days < 30:
		return 3
	default:
		return 5
	}
}

// analyzeDocumentQuality rates the attached documents 1-10 from their count,
// file types and naming. No documents at all is a hard floor of 1.
func analyzeDocumentQuality(documents []models.SupportingDocument) int {
	if len(documents) == 0 {
		return 1
	}

	quality := 3

	switch {
	case len(documents) >= 3:
		quality += 2
	case len(documents) == 2:
		quality++
	default:
		quality--
	}

	extensions := make(map[string]bool, len(documents))
	var hasPDF, hasSpreadsheet, hasImage, hasDescriptiveName bool
	for _, doc := range documents {
		ext := strings.ToLower(filepath.Ext(doc.FileName))
		extensions[ext] = true
		switch ext {
		case ".pdf":
			hasPDF = true
		case ".xlsx", ".xls":
			hasSpreadsheet = true
		case ".jpg", ".jpeg", ".png":
			hasImage = true
		}
		if len(doc.FileName) > 10 &&
			!strings.HasPrefix(doc.FileName, "Screenshot") &&
			!strings.HasPrefix(doc.FileName, "image") {
			hasDescriptiveName = true
		}
	}

	if len(extensions) >= 2 {
		quality++
	}
	if hasPDF {
		quality++
	}
	if hasSpreadsheet {
		quality++
	}
	if hasImage {
		quality++
	}
	if hasDescriptiveName {
		quality++
	}

	if quality < 1 {
		quality = 1
	}
	if quality > 10 {
		quality = 10
	}
	return quality
}

// overallScore reduces the signals to a 0-100 weighted total: 20 points per
// boolean signal, capped contributions from history, pattern and quality.
func overallScore(score ClaimScore) decimal.Decimal {
	total := 0
	if score.HoursValid {
		total += 20
	}
	if score.AmountReasonable {
		total += 20
	}
	if score.HasSupportingDocs {
		total += 20
	}
	total += min(score.PreviousClaimHistory*3, 15)
	total += min(score.SubmissionPattern*2, 10)
	total += min(score.DocumentQuality*2, 15)
	return decimal.NewFromInt(int64(total))
}

// ClaimScoringService computes claim scores from the record store.
type ClaimScoringService struct {
	db *gorm.DB
}

func NewClaimScoringService(db *gorm.DB) *ClaimScoringService {
	return &ClaimScoringService{db: db}
}

// CalculateClaimScore fetches the claim's scoring inputs and scores it.
func (s *ClaimScoringService) CalculateClaimScore(claim *models.Claim) (ClaimScore, error) {
	return s.calculate(s.db, claim)
}

func (s *ClaimScoringService) calculate(db *gorm.DB, claim *models.Claim) (ClaimScore, error) {
	var siblings []models.Claim
	if err := db.Where("user_id = ? AND claim_id <> ?", claim.UserID, claim.ClaimID).
		Find(&siblings).Error; err != nil {
		return ClaimScore{}, fmt.Errorf("failed to load claims for user %d: %w", claim.UserID, err)
	}

	var documents []models.SupportingDocument
	if err := db.Where("claim_id = ?", claim.ClaimID).
		Find(&documents).Error; err != nil {
		return ClaimScore{}, fmt.Errorf("failed to load documents for claim %d: %w", claim.ClaimID, err)
	}

	return ScoreClaim(*claim, siblings, documents), nil
}

// ClaimWithScore pairs a claim with its score for review queues.
type ClaimWithScore struct {
	Claim          models.Claim   `json:"claim"`
	Score          ClaimScore     `json:"score"`
	PriorityScore  int            `json:"priority_score"`
	Recommendation Recommendation `json:"recommendation"`
}

// PrioritizedClaims scores every submitted claim and orders the review queue,
// most urgent first.
func (s *ClaimScoringService) PrioritizedClaims() ([]ClaimWithScore, error) {
	var pending []models.Claim
	if err := s.db.Preload("User").Preload("CurrentStatus").Preload("SupportingDocuments").
		Where("current_status_id = ?", models.StatusSubmitted).
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to load submitted claims: %w", err)
	}

	ranked := make([]ClaimWithScore, 0, len(pending))
	for i := range pending {
		score, err := s.CalculateClaimScore(&pending[i])
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, ClaimWithScore{
			Claim:          pending[i],
			Score:          score,
			PriorityScore:  priorityScore(score),
			Recommendation: score.Recommendation,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PriorityScore != ranked[j].PriorityScore {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		}
		return ranked[i].Score.OverallScore.GreaterThan(ranked[j].Score.OverallScore)
	})

	return ranked, nil
}

// priorityScore boosts urgent claims above their raw confidence score so
// missing documentation and outlier amounts surface near the top of the queue.
func priorityScore(score ClaimScore) int {
	base := int(score.OverallScore.IntPart())
	if score.Priority == PriorityHigh {
		base += 20
	}
	if !score.HasSupportingDocs {
		base -= 15
	}
	if !score.AmountReasonable {
		base -= 10
	}
	if base < 0 {
		base = 0
	}
	return base
}
