package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"contract-claims-api/models"
)

// ErrClaimNotFound is returned when a single-claim operation targets an ID
// that does not exist. Batch processing skips missing IDs instead.
var ErrClaimNotFound = errors.New("claim not found")

// AutoApprovalResult is the outcome of evaluating one claim against the
// auto-approval rules.
type AutoApprovalResult struct {
	AutoApproved bool       `json:"auto_approved"`
	Reason       string     `json:"reason,omitempty"`
	Warnings     []string   `json:"warnings"`
	Score        ClaimScore `json:"score"`
}

// BatchApprovalResult aggregates a batch-approval run.
type BatchApprovalResult struct {
	TotalProcessed       int             `json:"total_processed"`
	Approved             int             `json:"approved"`
	RequiresManualReview int             `json:"requires_manual_review"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	ProcessingLog        []string        `json:"processing_log"`
}

// autoApprovalRules is evaluated top-down; the first matching rule approves
// the claim. Order matters: reordering changes which claims get approved
// versus flagged.
var autoApprovalRules = []struct {
	reason  string
	matches func(ClaimScore) bool
}{
	{
		reason: "High-confidence claim with excellent score and complete documentation",
		matches: func(s ClaimScore) bool {
			return s.OverallScore.GreaterThanOrEqual(decimal.NewFromInt(90)) &&
				s.HoursValid && s.AmountReasonable && s.HasSupportingDocs
		},
	},
	{
		reason: "Confident approval based on strong claim history and validation",
		matches: func(s ClaimScore) bool {
			return s.OverallScore.GreaterThanOrEqual(decimal.NewFromInt(80)) &&
				s.HoursValid && s.AmountReasonable
		},
	},
}

// EvaluateScore applies the auto-approval rules to an already computed score.
// Warnings accumulate independently of the approval decision.
func EvaluateScore(score ClaimScore) AutoApprovalResult {
	result := AutoApprovalResult{Warnings: []string{}, Score: score}

	for _, rule := range autoApprovalRules {
		if rule.matches(score) {
			result.AutoApproved = true
			result.Reason = rule.reason
			break
		}
	}

	if !result.AutoApproved && score.OverallScore.LessThanOrEqual(decimal.NewFromInt(40)) {
		result.Warnings = append(result.Warnings, "Low confidence score - requires manual review")
	}

	if !score.HoursValid {
		result.Warnings = append(result.Warnings, "Hours worked outside valid range")
	}
	if !score.AmountReasonable {
		result.Warnings = append(result.Warnings, "Claim amount appears unreasonable")
	}
	if !score.HasSupportingDocs {
		result.Warnings = append(result.Warnings, "No supporting documents provided")
	}

	return result
}

// ClaimWorkflowService drives auto-approval and batch approval over the
// record store. All status transitions write a matching history entry inside
// the same transaction.
type ClaimWorkflowService struct {
	db       *gorm.DB
	scoring  *ClaimScoringService
	notifier *NotificationService
}

func NewClaimWorkflowService(db *gorm.DB) *ClaimWorkflowService {
	return &ClaimWorkflowService{
		db:       db,
		scoring:  NewClaimScoringService(db),
		notifier: NewNotificationService(db),
	}
}

// EvaluateAutoApproval computes a fresh score for the claim and applies the
// auto-approval rules. No state is mutated.
func (s *ClaimWorkflowService) EvaluateAutoApproval(claim *models.Claim) (AutoApprovalResult, error) {
	return s.evaluate(s.db, claim)
}

func (s *ClaimWorkflowService) evaluate(db *gorm.DB, claim *models.Claim) (AutoApprovalResult, error) {
	score, err := s.scoring.calculate(db, claim)
	if err != nil {
		return AutoApprovalResult{}, err
	}
	return EvaluateScore(score), nil
}

// ProcessBatch evaluates each claim in claimIDs and approves or flags it.
// Per-claim branch order: auto-approved, warnings (left untouched for manual
// review), then clean below-threshold claims fall back to a standard batch
// approval. Every mutation is staged in one transaction; a failure aborts the
// whole batch. IDs that do not exist are skipped silently.
func (s *ClaimWorkflowService) ProcessBatch(claimIDs []int, actingUserID int) (*BatchApprovalResult, error) {
	result := &BatchApprovalResult{
		TotalAmount:   decimal.Zero,
		ProcessingLog: []string{},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var claims []models.Claim
		if err := tx.Where("claim_id IN ?", claimIDs).Find(&claims).Error; err != nil {
			return fmt.Errorf("failed to load batch claims: %w", err)
		}

		for i := range claims {
			claim := &claims[i]

			eval, err := s.evaluate(tx, claim)
			if err != nil {
				return err
			}

			switch {
			case eval.AutoApproved:
				note := fmt.Sprintf("Auto-approved: %s", eval.Reason)
				if err := TransitionClaim(tx, claim, models.StatusApprovedByCoordinator, actingUserID, note); err != nil {
					return err
				}
				result.Approved++
				result.ProcessingLog = append(result.ProcessingLog,
					fmt.Sprintf("✅ Auto-approved Claim %d: %s", claim.ClaimID, eval.Reason))

			case len(eval.Warnings) > 0:
				result.RequiresManualReview++
				result.ProcessingLog = append(result.ProcessingLog,
					fmt.Sprintf("⚠️ Manual review needed for Claim %d: %s",
						claim.ClaimID, strings.Join(eval.Warnings, ", ")))

			default:
				if err := TransitionClaim(tx, claim, models.StatusApprovedByCoordinator, actingUserID, "Approved in batch processing"); err != nil {
					return err
				}
				result.Approved++
				result.ProcessingLog = append(result.ProcessingLog,
					fmt.Sprintf("✅ Approved Claim %d", claim.ClaimID))
			}

			result.TotalAmount = result.TotalAmount.Add(claim.TotalAmount)
		}

		result.TotalProcessed = len(claims)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AutoApproveSingle fetches one claim and approves it if the rules allow.
// Ineligible claims are reported without mutating any state. The notification
// goes out only after the transaction has committed.
func (s *ClaimWorkflowService) AutoApproveSingle(claimID, actingUserID int) (*AutoApprovalResult, error) {
	var claim models.Claim
	if err := s.db.First(&claim, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to load claim %d: %w", claimID, err)
	}

	eval, err := s.EvaluateAutoApproval(&claim)
	if err != nil {
		return nil, err
	}
	if !eval.AutoApproved {
		return &eval, nil
	}

	note := fmt.Sprintf("Auto-approved: %s", eval.Reason)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return TransitionClaim(tx, &claim, models.StatusApprovedByCoordinator, actingUserID, note)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyClaimAction(&claim, "auto-approved")

	return &eval, nil
}

// TransitionClaim updates the claim status and appends the matching history
// entry. Callers must run it inside a transaction so the two writes commit as
// one unit.
func TransitionClaim(tx *gorm.DB, claim *models.Claim, statusID, actingUserID int, note string) error {
	now := time.Now()
	claim.CurrentStatusID = statusID
	claim.UpdateAt = &now

	if err := tx.Save(claim).Error; err != nil {
		return fmt.Errorf("failed to update claim %d: %w", claim.ClaimID, err)
	}

	history := models.ClaimStatusHistory{
		ClaimID:         claim.ClaimID,
		StatusID:        statusID,
		ChangedByUserID: actingUserID,
		ChangeDate:      now,
	}
	if note != "" {
		history.Notes = &note
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to append history for claim %d: %w", claim.ClaimID, err)
	}

	return nil
}
