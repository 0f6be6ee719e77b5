package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"contract-claims-api/config"
	"contract-claims-api/models"
	"contract-claims-api/services"
)

// allowedTransitions maps an acting role to the status moves it may make.
// Keyed by role, then by the claim's current status.
var allowedTransitions = map[int]map[int][]int{
	models.RoleCoordinator: {
		models.StatusSubmitted: {models.StatusApprovedByCoordinator, models.StatusRejected},
	},
	models.RoleManager: {
		models.StatusApprovedByCoordinator: {models.StatusApprovedByManager, models.StatusRejected},
	},
}

func transitionAllowed(roleID, currentStatusID, newStatusID int) bool {
	for _, target := range allowedTransitions[roleID][currentStatusID] {
		if target == newStatusID {
			return true
		}
	}
	return false
}

// statusActionLabel names the transition for notifications.
func statusActionLabel(statusID int) string {
	switch statusID {
	case models.StatusApprovedByCoordinator:
		return "approved by the coordinator"
	case models.StatusApprovedByManager:
		return "approved by the manager"
	case models.StatusRejected:
		return "rejected"
	case models.StatusPaid:
		return "processed for payment"
	default:
		return "updated"
	}
}

// GetCoordinatorQueue returns submitted claims scored and ordered for review.
func GetCoordinatorQueue(c *gin.Context) {
	scoring := services.NewClaimScoringService(getDB())

	ranked, err := scoring.PrioritizedClaims()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pending claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claims": ranked,
		"count":  len(ranked),
	})
}

// GetManagerQueue returns coordinator-approved claims awaiting the manager.
func GetManagerQueue(c *gin.Context) {
	var claims []models.Claim
	if err := config.DB.Preload("User").Preload("CurrentStatus").Preload("SupportingDocuments").
		Where("current_status_id = ?", models.StatusApprovedByCoordinator).
		Order("submission_date ASC").
		Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claims"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claims": claims,
		"count":  len(claims),
	})
}

// UpdateClaimStatus moves a claim one step through the approval workflow.
// The status change and its history entry commit together.
func UpdateClaimStatus(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil || claimID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	type StatusUpdateRequest struct {
		NewStatusID int    `json:"new_status_id" binding:"required"`
		Notes       string `json:"notes"`
	}
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var claim models.Claim
	if err := config.DB.First(&claim, "claim_id = ?", claimID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	if !transitionAllowed(roleID, claim.CurrentStatusID, req.NewStatusID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status transition not allowed"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		return services.TransitionClaim(tx, &claim, req.NewStatusID, userID, req.Notes)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating status"})
		return
	}

	services.NewNotificationService(config.DB).
		NotifyClaimAction(&claim, statusActionLabel(req.NewStatusID))

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated successfully",
		"claim":   claim,
	})
}

// AutoApproveClaim runs the automation rules against one claim and approves
// it when eligible.
func AutoApproveClaim(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil || claimID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	workflow := services.NewClaimWorkflowService(getDB())
	result, err := workflow.AutoApproveSingle(claimID, userID)
	if err != nil {
		if errors.Is(err, services.ErrClaimNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Auto-approval failed"})
		return
	}

	if !result.AutoApproved {
		c.JSON(http.StatusOK, gin.H{
			"message": "Claim is not eligible for auto-approval",
			"result":  result,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Claim auto-approved",
		"result":  result,
	})
}

// BatchApproveClaims processes a list of claims through the automation rules
// in one atomic batch.
func BatchApproveClaims(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	type BatchRequest struct {
		ClaimIDs []int `json:"claim_ids" binding:"required,min=1"`
	}
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflow := services.NewClaimWorkflowService(getDB())
	result, err := workflow.ProcessBatch(req.ClaimIDs, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Batch processed",
		"result":  result,
	})
}

// EvaluateClaim returns the automation evaluation for a claim without
// changing any state. Reviewers use it to preview the decision.
func EvaluateClaim(c *gin.Context) {
	claimID, err := strconv.Atoi(c.Param("id"))
	if err != nil || claimID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var claim models.Claim
	if err := config.DB.First(&claim, "claim_id = ?", claimID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	workflow := services.NewClaimWorkflowService(getDB())
	result, err := workflow.EvaluateAutoApproval(&claim)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Evaluation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
